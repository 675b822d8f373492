package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func errorHandler(status int, body map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func TestOpenAIBackend_HappyPath(t *testing.T) {
	var gotModel string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   gotModel,
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": "## Notes"},
					"finish_reason": "stop",
				},
			},
		})
	})

	b := NewOpenAIBackend(server.URL + "/v1")
	text, err := b.Generate(context.Background(), Tier{ID: "gpt-4o-mini"}, "test-key", Request{Prompt: "hi", MaxOutputTokens: 100})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "## Notes" {
		t.Errorf("Expected %q, got %q", "## Notes", text)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("Expected tier id as model, got %q", gotModel)
	}
}

func TestOpenAIBackend_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   OutcomeKind
	}{
		{"rate limit", http.StatusTooManyRequests, OutcomeQuotaExceeded},
		{"server error", http.StatusInternalServerError, OutcomeTransient},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, errorHandler(tc.status, map[string]any{
				"error": map[string]any{"type": "server_error", "message": "nope"},
			}))

			b := NewOpenAIBackend(server.URL + "/v1")
			_, err := b.Generate(context.Background(), Tier{ID: "gpt-4o-mini"}, "test-key", Request{Prompt: "hi"})
			if err == nil {
				t.Fatal("Expected error")
			}
			if got := Classify(err); got != tc.want {
				t.Errorf("Expected %s, got %s (%v)", tc.want, got, err)
			}
		})
	}
}

func TestAnthropicBackend_HappyPath(t *testing.T) {
	var body map[string]any
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "[1,"},
				{"type": "text", "text": "2]"},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	})

	b := NewAnthropicBackend(server.URL)
	text, err := b.Generate(context.Background(), Tier{ID: "claude-haiku-4-5-20251001"}, "test-key", Request{Prompt: "hi", Temperature: 0.5, TopP: 0.75, TopK: 40})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "[1,2]" {
		t.Errorf("Expected %q, got %q", "[1,2]", text)
	}
	if body["top_p"] != 0.75 {
		t.Errorf("Expected top_p 0.75, got %v", body["top_p"])
	}
	if body["top_k"] != float64(40) {
		t.Errorf("Expected top_k 40, got %v", body["top_k"])
	}
	if body["temperature"] != 0.5 {
		t.Errorf("Expected temperature 0.5, got %v", body["temperature"])
	}
}

func TestAnthropicBackend_RateLimit(t *testing.T) {
	server := newTestServer(t, errorHandler(http.StatusTooManyRequests, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "rate_limit_error", "message": "Rate limit exceeded"},
	}))

	b := NewAnthropicBackend(server.URL)
	_, err := b.Generate(context.Background(), Tier{ID: "claude-haiku-4-5-20251001"}, "test-key", Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("Expected error")
	}
	if got := Classify(err); got != OutcomeQuotaExceeded {
		t.Errorf("Expected quota_exceeded, got %s (%v)", got, err)
	}
}

func TestNewBackend(t *testing.T) {
	for _, name := range []string{"", "gemini", "openai", "anthropic"} {
		if _, err := NewBackend(name, "", 1); err != nil {
			t.Errorf("NewBackend(%q): %v", name, err)
		}
	}
	if _, err := NewBackend("llama", "", 1); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
