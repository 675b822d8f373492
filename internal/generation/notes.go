package generation

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

const (
	notesMinChars    = 50
	notesPromptChars = 4000
)

var notesSampling = Request{
	Temperature:     0.7,
	TopP:            0.8,
	TopK:            40,
	MaxOutputTokens: 1500,
}

type NotesPipeline struct {
	runner *Runner
}

func NewNotesPipeline(runner *Runner) *NotesPipeline {
	return &NotesPipeline{runner: runner}
}

// Generate produces markdown study notes for a transcript. Only the first
// 4000 characters of the transcript are sent to the model.
func (p *NotesPipeline) Generate(ctx context.Context, transcript string) (*models.Notes, error) {
	if err := checkLength(transcript, notesMinChars); err != nil {
		return nil, err
	}

	req := notesSampling
	req.Prompt = buildNotesPrompt(truncateRunes(transcript, notesPromptChars))

	text, model, err := runFallback(ctx, p.runner, "notes", req, acceptNotes)
	if err != nil {
		return nil, err
	}
	return &models.Notes{Markdown: text, Model: model, GeneratedAt: time.Now()}, nil
}

// Check reports, without calling the backend, the error Generate would fail
// with before its first attempt.
func (p *NotesPipeline) Check(transcript string) error {
	if err := checkLength(transcript, notesMinChars); err != nil {
		return err
	}
	if !p.runner.Configured() {
		return p.runner.noCredentials()
	}
	return nil
}

func acceptNotes(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty notes")
	}
	return text, nil
}

func checkLength(transcript string, minChars int) error {
	if n := utf8.RuneCountInString(transcript); n < minChars {
		return &TooShortError{Min: minChars, Got: n}
	}
	return nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
