package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials means no API key was configured. Nothing is sent.
	ErrNoCredentials = errors.New("no API key configured for the generation backend")

	// ErrTranscriptTooShort is returned before any backend call is spent.
	ErrTranscriptTooShort = errors.New("transcript too short for meaningful analysis")

	// ErrAllExhausted matches every *ExhaustedError.
	ErrAllExhausted = errors.New("all models and API keys are exhausted")

	// ErrNoValidQuestions means no quiz question survived validation.
	ErrNoValidQuestions = errors.New("no valid questions in model output")
)

var keyVars = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// NoCredentialsError names the environment variable that would configure
// the backend's keys.
type NoCredentialsError struct {
	Backend string
}

func (e *NoCredentialsError) Error() string {
	v, ok := keyVars[e.Backend]
	if !ok {
		return ErrNoCredentials.Error()
	}
	return fmt.Sprintf("no API key configured for %s (set %s or %s_1..N)", e.Backend, v, v)
}

func (e *NoCredentialsError) Is(target error) bool { return target == ErrNoCredentials }

// TooShortError reports the minimum transcript length a pipeline needs.
type TooShortError struct {
	Min int
	Got int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("%v (need at least %d characters, got %d)", ErrTranscriptTooShort, e.Min, e.Got)
}

func (e *TooShortError) Is(target error) bool { return target == ErrTranscriptTooShort }

// ExhaustedError is the single terminal failure of the fallback loop.
type ExhaustedError struct {
	Task      string
	Attempts  int
	LastError string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all AI models are currently unavailable for %s (%d attempts). "+
		"Wait a few minutes for the quota to reset, try fewer questions, or check your API key configuration",
		e.Task, e.Attempts)
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrAllExhausted }

// BackendError carries the HTTP status a backend SDK reported, when it
// reported one. Classify prefers it over message matching.
type BackendError struct {
	Backend    string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error (status %d): %v", e.Backend, e.StatusCode, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
