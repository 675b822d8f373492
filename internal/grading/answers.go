package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

var (
	ErrAlreadySubmitted = errors.New("quiz already submitted")
	ErrUnknownQuestion  = errors.New("unknown question")
)

// IncompleteError is returned when a quiz is submitted before every
// question has an answer.
type IncompleteError struct {
	Answered int
	Total    int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("Please answer all questions! (%d/%d answered)", e.Answered, e.Total)
}

// AnswerSet holds a user's answers for one quiz. Once submitted it is
// read-only until Reset.
type AnswerSet struct {
	Answers   map[int]string `json:"answers"`
	Submitted bool           `json:"submitted"`
}

func NewAnswerSet() *AnswerSet {
	return &AnswerSet{Answers: make(map[int]string)}
}

func (s *AnswerSet) Record(questions []models.QuizQuestion, questionID int, answer string) error {
	if s.Submitted {
		return ErrAlreadySubmitted
	}
	if !lo.ContainsBy(questions, func(q models.QuizQuestion) bool { return q.ID == questionID }) {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if s.Answers == nil {
		s.Answers = make(map[int]string)
	}
	s.Answers[questionID] = answer
	return nil
}

// Answered counts the questions that have a non-blank answer.
func (s *AnswerSet) Answered(questions []models.QuizQuestion) int {
	return lo.CountBy(questions, func(q models.QuizQuestion) bool {
		return strings.TrimSpace(s.Answers[q.ID]) != ""
	})
}

// Submit grades the answers. It fails without side effects unless every
// question is answered.
func (s *AnswerSet) Submit(questions []models.QuizQuestion) (*models.QuizResult, error) {
	if s.Submitted {
		return nil, ErrAlreadySubmitted
	}
	if n := s.Answered(questions); n < len(questions) {
		return nil, &IncompleteError{Answered: n, Total: len(questions)}
	}

	s.Submitted = true
	return Grade(questions, s.Answers), nil
}

func (s *AnswerSet) Reset() {
	s.Answers = make(map[int]string)
	s.Submitted = false
}

func Grade(questions []models.QuizQuestion, answers map[int]string) *models.QuizResult {
	result := &models.QuizResult{Total: len(questions)}
	for _, q := range questions {
		user := answers[q.ID]
		correct := Evaluate(user, q.CorrectAnswer, q.Type)
		if correct {
			result.Score++
		}
		result.Results = append(result.Results, models.QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			UserAnswer:    user,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       correct,
			Explanation:   q.Explanation,
		})
	}

	if result.Total > 0 {
		result.Percent = float64(result.Score) / float64(result.Total) * 100
	}
	result.Verdict = Verdict(result.Percent)
	return result
}

func Verdict(percent float64) string {
	switch {
	case percent >= 80:
		return "Excellent work! You have mastered this topic!"
	case percent >= 60:
		return "Good job! Review the explanations to improve further!"
	default:
		return "Keep studying! Review the notes and try again!"
	}
}
