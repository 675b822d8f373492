package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusPending = "pending"
	SessionStatusReady   = "ready"
	SessionStatusFailed  = "failed"
)

// StudySession is everything one interactive session produced. It lives in
// Redis with a TTL and is never persisted beyond that.
type StudySession struct {
	ID               uuid.UUID        `json:"id"`
	SourceURL        string           `json:"source_url"`
	VideoID          string           `json:"video_id"`
	Status           string           `json:"status"` // "pending" | "ready" | "failed"
	Metadata         *YouTubeMetadata `json:"metadata,omitempty"`
	Transcript       string           `json:"transcript,omitempty"`
	TranscriptSource string           `json:"transcript_source,omitempty"` // "captions" | "speech-to-text" | "upload"
	ErrorMessage     *string          `json:"error_message,omitempty"`
	Notes            *Notes           `json:"notes,omitempty"`
	Quiz             *Quiz            `json:"quiz,omitempty"`
	Answers          map[int]string   `json:"answers"`
	Submitted        bool             `json:"submitted"`
	Result           *QuizResult      `json:"result,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type CreateSessionResponse struct {
	Session *StudySession `json:"session"`
	Token   string        `json:"token"`
	JobID   uuid.UUID     `json:"job_id"`
}
