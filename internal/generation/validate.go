package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

const questionSchemaURL = "schema://quiz-question.json"

const questionSchemaJSON = `{
	"type": "object",
	"required": ["type", "question", "options", "correct_answer", "explanation"],
	"properties": {
		"type": {"const": "mcq"},
		"question": {"type": "string", "minLength": 1},
		"options": {
			"type": "array",
			"minItems": 4,
			"maxItems": 4,
			"uniqueItems": true,
			"items": {"type": "string"}
		},
		"correct_answer": {"type": "string"},
		"explanation": {"type": "string"}
	}
}`

var (
	questionSchema = mustCompileQuestionSchema()

	objectFragment = regexp.MustCompile(`\{[^{}]*\}`)
	mcqTag         = regexp.MustCompile(`"type"\s*:\s*"mcq"`)
)

func mustCompileQuestionSchema() *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(questionSchemaJSON), &doc); err != nil {
		panic(fmt.Sprintf("question schema: %v", err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(questionSchemaURL, doc); err != nil {
		panic(fmt.Sprintf("question schema: %v", err))
	}
	sch, err := c.Compile(questionSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("question schema: %v", err))
	}
	return sch
}

// ParseQuestions parses sanitized model output into validated questions.
// When the text is not valid JSON it falls back to salvaging individual
// question objects, so a truncated response still yields its complete items.
func ParseQuestions(cleaned string) ([]models.QuizQuestion, error) {
	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		questions := recoverQuestions(cleaned)
		if len(questions) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoValidQuestions, err)
		}
		return questions, nil
	}

	questions := ValidateQuestions(doc)
	if len(questions) == 0 {
		return nil, ErrNoValidQuestions
	}
	return questions, nil
}

// ValidateQuestions keeps the elements of a decoded JSON array that are
// well-formed multiple-choice questions and renumbers them 1..N. Anything
// other than an array yields no questions.
func ValidateQuestions(doc any) []models.QuizQuestion {
	items, ok := doc.([]any)
	if !ok {
		return nil
	}

	var questions []models.QuizQuestion
	for _, item := range items {
		q, ok := validateQuestion(item)
		if !ok {
			continue
		}
		q.ID = len(questions) + 1
		questions = append(questions, q)
	}
	return questions
}

func validateQuestion(item any) (models.QuizQuestion, bool) {
	if err := questionSchema.Validate(item); err != nil {
		return models.QuizQuestion{}, false
	}

	m := item.(map[string]any)
	q := models.QuizQuestion{
		Type:          m["type"].(string),
		Question:      m["question"].(string),
		CorrectAnswer: m["correct_answer"].(string),
		Explanation:   m["explanation"].(string),
		Options: lo.Map(m["options"].([]any), func(o any, _ int) string {
			return o.(string)
		}),
	}

	if strings.TrimSpace(q.Question) == "" {
		return models.QuizQuestion{}, false
	}
	correct := strings.TrimSpace(q.CorrectAnswer)
	if !lo.ContainsBy(q.Options, func(o string) bool { return strings.TrimSpace(o) == correct }) {
		return models.QuizQuestion{}, false
	}
	return q, true
}

func recoverQuestions(text string) []models.QuizQuestion {
	var items []any
	for _, frag := range objectFragment.FindAllString(text, -1) {
		if !mcqTag.MatchString(frag) {
			continue
		}
		var item any
		if err := json.Unmarshal([]byte(repairCommas(frag)), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return ValidateQuestions(items)
}
