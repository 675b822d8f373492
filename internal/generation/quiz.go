package generation

import (
	"context"
	"strings"
	"time"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

const (
	quizMinChars    = 100
	quizPromptChars = 2500

	MinQuestions = 1
	MaxQuestions = 20
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty is case-insensitive. Unknown values mean Medium.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

var quizSampling = Request{
	Temperature:     0.7,
	TopP:            0.95,
	MaxOutputTokens: 2048,
}

type QuizPipeline struct {
	runner *Runner
}

func NewQuizPipeline(runner *Runner) *QuizPipeline {
	return &QuizPipeline{runner: runner}
}

// Generate asks for count multiple-choice questions (clamped to 1..20) and
// returns the ones that validate. A tier whose output yields no valid
// question counts as a failed tier.
func (p *QuizPipeline) Generate(ctx context.Context, transcript string, count int, difficulty string) (*models.Quiz, error) {
	if err := checkLength(transcript, quizMinChars); err != nil {
		return nil, err
	}

	count = ClampQuestionCount(count)
	level := ParseDifficulty(difficulty)

	req := quizSampling
	req.Prompt = buildQuizPrompt(truncateRunes(transcript, quizPromptChars), count, level)

	questions, model, err := runFallback(ctx, p.runner, "quiz", req, acceptQuiz)
	if err != nil {
		return nil, err
	}
	return &models.Quiz{
		Questions:   questions,
		Model:       model,
		Difficulty:  string(level),
		GeneratedAt: time.Now(),
	}, nil
}

func (p *QuizPipeline) Check(transcript string) error {
	if err := checkLength(transcript, quizMinChars); err != nil {
		return err
	}
	if !p.runner.Configured() {
		return p.runner.noCredentials()
	}
	return nil
}

func acceptQuiz(text string) ([]models.QuizQuestion, error) {
	return ParseQuestions(Sanitize(text))
}

func ClampQuestionCount(n int) int {
	return min(max(n, MinQuestions), MaxQuestions)
}
