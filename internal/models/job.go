package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	JobTypeTranscript = "transcript-extraction"
	JobTypeNotes      = "notes-generation"
	JobTypeQuiz       = "quiz-generation"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type Job struct {
	ID           uuid.UUID       `json:"id"`
	SessionID    uuid.UUID       `json:"session_id"`
	Type         string          `json:"type"` // "transcript-extraction" | "notes-generation" | "quiz-generation"
	ConfigJSON   json.RawMessage `json:"config"`
	Status       string          `json:"status"` // "pending" | "processing" | "completed" | "failed"
	RetryCount   int             `json:"retry_count"`
	MaxRetries   int             `json:"max_retries"`
	ErrorMessage *string         `json:"error_message"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	JobID                     uuid.UUID `json:"job_id"`
	Step                      int       `json:"step"`
	StepName                  string    `json:"step_name"`
	EstimatedSecondsRemaining int       `json:"estimated_seconds_remaining"`
}

type CompletedEvent struct {
	JobID      uuid.UUID `json:"job_id"`
	ResultType string    `json:"result_type"`
	Model      string    `json:"model,omitempty"`
}

type ErrorEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
