package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

var quizTranscript = strings.Repeat("Goroutines are cheap and channels connect them. ", 10)

func TestQuizPipeline_DropsInvalidQuestion(t *testing.T) {
	four := []string{"a", "b", "c", "d"}
	items := []string{
		mcqJSON(1, "Q1", four, "a"),
		mcqJSON(2, "Q2", []string{"a", "b", "c"}, "a"),
		mcqJSON(3, "Q3", four, "b"),
		mcqJSON(4, "Q4", four, "c"),
		mcqJSON(5, "Q5", four, "d"),
	}
	mock := NewMockBackend(MockResponse{Text: "[" + strings.Join(items, ",") + "]"})
	p := NewQuizPipeline(newTestRunner(mock, []string{"k1"}, ""))

	quiz, err := p.Generate(context.Background(), quizTranscript, 5, "Medium")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(quiz.Questions) != 4 {
		t.Fatalf("Expected 4 questions, got %d", len(quiz.Questions))
	}
	for i, q := range quiz.Questions {
		if q.ID != i+1 {
			t.Errorf("question %d: expected id %d, got %d", i, i+1, q.ID)
		}
	}
	if quiz.Questions[1].Question != "Q3" {
		t.Errorf("Expected Q3 second, got %s", quiz.Questions[1].Question)
	}
	if quiz.Model != "tier-a" || quiz.Difficulty != "Medium" {
		t.Errorf("Unexpected quiz metadata %s/%s", quiz.Model, quiz.Difficulty)
	}
}

func TestQuizPipeline_EmptyBatchFailsTier(t *testing.T) {
	four := []string{"a", "b", "c", "d"}
	mock := NewMockBackend(
		MockResponse{Text: "[" + mcqJSON(1, "bad", []string{"a"}, "a") + "]"},
		MockResponse{Text: "Sure! Here you go:\n```json\n[" + mcqJSON(9, "Q1", four, "a") + ",]\n```"},
	)
	p := NewQuizPipeline(newTestRunner(mock, []string{"k1"}, ""))

	quiz, err := p.Generate(context.Background(), quizTranscript, 1, "easy")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if quiz.Model != "tier-b" || len(quiz.Questions) != 1 || quiz.Questions[0].ID != 1 {
		t.Errorf("Expected one question from tier-b, got %+v", quiz)
	}
	if quiz.Difficulty != "Easy" {
		t.Errorf("Expected Easy, got %s", quiz.Difficulty)
	}
}

func TestQuizPipeline_NeverReturnsEmptyQuiz(t *testing.T) {
	mock := NewMockBackend(MockResponse{Text: "[]"}, MockResponse{Text: "no"}, MockResponse{Text: "[{}]"})
	p := NewQuizPipeline(newTestRunner(mock, []string{"k1"}, ""))

	quiz, err := p.Generate(context.Background(), quizTranscript, 3, "Hard")
	if !errors.Is(err, ErrAllExhausted) {
		t.Fatalf("Expected ErrAllExhausted, got %v", err)
	}
	if quiz != nil {
		t.Errorf("Expected nil quiz, got %+v", quiz)
	}
}

func TestQuizPipeline_TooShort(t *testing.T) {
	mock := NewMockBackend()
	p := NewQuizPipeline(newTestRunner(mock, []string{"k1"}, ""))

	if _, err := p.Generate(context.Background(), strings.Repeat("x", 99), 5, "Medium"); !errors.Is(err, ErrTranscriptTooShort) {
		t.Fatalf("Expected ErrTranscriptTooShort, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("Expected no backend calls, got %d", mock.CallCount())
	}
}

func TestQuizPipeline_Prompt(t *testing.T) {
	tests := []struct {
		count      int
		difficulty string
		wantCount  int
		wantLevel  string
	}{
		{0, "Easy", 1, "Easy"},
		{50, "HARD", 20, "Hard"},
		{10, "impossible", 10, "Medium"},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d-%s", tc.count, tc.difficulty), func(t *testing.T) {
			mock := NewMockBackend()
			p := NewQuizPipeline(newTestRunner(mock, []string{"k1"}, ""))
			p.Generate(context.Background(), strings.Repeat("ü", 3000), tc.count, tc.difficulty)

			if mock.CallCount() == 0 {
				t.Fatal("Expected backend to be called")
			}
			req := mock.Calls[0].Request
			if !strings.Contains(req.Prompt, fmt.Sprintf("Generate exactly %d questions.", tc.wantCount)) {
				t.Errorf("Expected prompt to ask for %d questions", tc.wantCount)
			}
			if !strings.Contains(req.Prompt, "Difficulty: "+tc.wantLevel+".") {
				t.Errorf("Expected difficulty %s in prompt", tc.wantLevel)
			}
			if n := strings.Count(req.Prompt, "ü"); n != quizPromptChars {
				t.Errorf("Expected %d transcript characters, got %d", quizPromptChars, n)
			}
			if req.Temperature != 0.7 || req.TopP != 0.95 || req.MaxOutputTokens != 2048 {
				t.Errorf("Unexpected sampling parameters %+v", req)
			}
		})
	}
}
