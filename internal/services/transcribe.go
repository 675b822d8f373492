package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/generation"
)

// SpeechToText transcribes audio with Gemini, rotating API keys on quota
// exhaustion the same way the generation pipelines do.
type SpeechToText struct {
	backend *generation.GeminiBackend
	keys    []string
	model   generation.Tier
}

func NewSpeechToText(backend *generation.GeminiBackend, keys []string, model string) *SpeechToText {
	return &SpeechToText{
		backend: backend,
		keys:    keys,
		model:   generation.Tier{ID: model, MaxOutputTokens: 8192},
	}
}

func (s *SpeechToText) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	pool := generation.NewCredentialPool(s.keys)
	key, ok := pool.Current()
	if !ok {
		return "", &generation.NoCredentialsError{Backend: "gemini"}
	}

	for {
		text, err := s.backend.Transcribe(ctx, s.model, key, audio, mimeType)
		if err == nil {
			return text, nil
		}
		if generation.Classify(err) != generation.OutcomeQuotaExceeded || !pool.Rotate() {
			return "", fmt.Errorf("speech-to-text with %s: %w", s.model.ID, err)
		}
		key, _ = pool.Current()
		log.Printf("Speech-to-text quota exhausted, rotated to key %d/%d", pool.Index()+1, pool.Len())
	}
}
