package models

import "time"

type Notes struct {
	Markdown    string    `json:"markdown"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}
