package worker

import (
	"errors"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/repository"
	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/services"
)

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error { return &permanentError{err: err} }

func sessionErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return permanent(errors.New("session has expired"))
	}
	return err
}

// retryable reports whether running the job again could succeed.
func retryable(err error) bool {
	var pe *permanentError
	switch {
	case errors.As(err, &pe),
		errors.Is(err, generation.ErrTranscriptTooShort),
		errors.Is(err, generation.ErrNoCredentials),
		errors.Is(err, generation.ErrAllExhausted):
		return false
	}
	return true
}

// ErrorCode is the machine-readable code sent to clients for a failed job.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, generation.ErrTranscriptTooShort):
		return "TRANSCRIPT_TOO_SHORT"
	case errors.Is(err, generation.ErrNoCredentials):
		return "NOT_CONFIGURED"
	case errors.Is(err, generation.ErrAllExhausted):
		return "GENERATION_EXHAUSTED"
	case errors.Is(err, services.ErrNoTranscript):
		return "NO_TRANSCRIPT"
	default:
		return "JOB_FAILED"
	}
}
