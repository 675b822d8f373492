package services

import (
	"strings"
	"testing"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

func exportSession(submitted bool) *models.StudySession {
	return &models.StudySession{
		VideoID:   "dQw4w9WgXcQ",
		SourceURL: "https://youtu.be/dQw4w9WgXcQ",
		Metadata:  &models.YouTubeMetadata{Title: "Intro to Go"},
		Notes:     &models.Notes{Markdown: "## Core Concept\nGoroutines.", Model: "gemini-2.5-flash"},
		Quiz: &models.Quiz{
			Difficulty: "Easy",
			Questions: []models.QuizQuestion{{
				ID:            1,
				Type:          "mcq",
				Question:      "What starts a goroutine?",
				Options:       []string{"go", "run", "spawn", "async"},
				CorrectAnswer: "go",
				Explanation:   "The go keyword.",
			}},
		},
		Answers:   map[int]string{1: "run"},
		Submitted: submitted,
		Result:    &models.QuizResult{Score: 0, Total: 1, Percent: 0, Verdict: "Keep studying!"},
	}
}

func TestNotesText(t *testing.T) {
	text := NotesText(exportSession(false))

	for _, want := range []string{"Study Notes: Intro to Go", "Source: https://youtu.be/dQw4w9WgXcQ", "Goroutines."} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
}

func TestQuizText(t *testing.T) {
	tests := []struct {
		name      string
		submitted bool
		want      []string
		notWant   []string
	}{
		{
			name:    "before submit hides answers",
			want:    []string{"1. What starts a goroutine?", "A) go", "D) async"},
			notWant: []string{"Correct answer", "Explanation", "Score:"},
		},
		{
			name:      "after submit shows answer key",
			submitted: true,
			want:      []string{"Score: 0/1", "Your answer: run", "Correct answer: go", "Explanation: The go keyword."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := QuizText(exportSession(tt.submitted))
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("Expected %q in:\n%s", w, text)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(text, w) {
					t.Errorf("Did not expect %q in:\n%s", w, text)
				}
			}
		})
	}
}

func TestSessionTitleFallback(t *testing.T) {
	s := &models.StudySession{VideoID: "abc"}
	if got := sessionTitle(s); got != "YouTube video abc" {
		t.Errorf("Expected fallback title, got %q", got)
	}
}
