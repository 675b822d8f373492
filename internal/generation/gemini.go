package generation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiBackend talks to the Gemini API. One SDK client is kept per API
// key, and the number of in-flight requests across all keys is bounded.
type GeminiBackend struct {
	mu       sync.Mutex
	clients  map[string]*genai.Client
	rateChan chan struct{} // Token bucket
}

func NewGeminiBackend(concurrentReqs int) *GeminiBackend {
	if concurrentReqs <= 0 {
		concurrentReqs = 1
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiBackend{
		clients:  make(map[string]*genai.Client),
		rateChan: rateChan,
	}
}

func (b *GeminiBackend) Name() string { return "gemini" }

func (b *GeminiBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, c := range b.clients {
		c.Close()
		delete(b.clients, key)
	}
}

// acquireRate blocks until a rate slot is available
func (b *GeminiBackend) acquireRate(ctx context.Context) error {
	select {
	case <-b.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (b *GeminiBackend) releaseRate() {
	b.rateChan <- struct{}{}
}

func (b *GeminiBackend) client(apiKey string) (*genai.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.clients[apiKey]; ok {
		return c, nil
	}
	c, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	b.clients[apiKey] = c
	return c, nil
}

func (b *GeminiBackend) Generate(ctx context.Context, tier Tier, credential string, req Request) (string, error) {
	if err := b.acquireRate(ctx); err != nil {
		return "", err
	}
	defer b.releaseRate()

	c, err := b.client(credential)
	if err != nil {
		return "", err
	}

	model := c.GenerativeModel(tier.ID)
	model.SetTemperature(req.Temperature)
	if req.TopP > 0 {
		model.SetTopP(req.TopP)
	}
	if req.TopK > 0 {
		model.SetTopK(req.TopK)
	}
	if req.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(req.MaxOutputTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", geminiError(err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Printf("WARNING: Gemini %s candidate %d stopped due to %s", tier.ID, i, cand.FinishReason)
		}
	}
	return extractText(resp), nil
}

// Transcribe uploads audio through the Gemini File API and asks the model
// for a verbatim transcript.
func (b *GeminiBackend) Transcribe(ctx context.Context, tier Tier, credential string, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}
	if err := b.acquireRate(ctx); err != nil {
		return "", err
	}
	defer b.releaseRate()

	c, err := b.client(credential)
	if err != nil {
		return "", err
	}

	file, err := c.UploadFile(ctx, "", bytes.NewReader(audio), &genai.UploadFileOptions{
		DisplayName: "youtube-audio",
		MIMEType:    mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio to Gemini: %w", geminiError(err))
	}
	defer c.DeleteFile(context.Background(), file.Name)

	for i := 0; i < 20 && file.State != genai.FileStateActive; i++ {
		current, getErr := c.GetFile(ctx, file.Name)
		if getErr != nil {
			return "", fmt.Errorf("failed to get uploaded file status: %w", geminiError(getErr))
		}
		if current.State == genai.FileStateFailed {
			return "", fmt.Errorf("Gemini failed to process uploaded audio file")
		}
		file = current
		if file.State == genai.FileStateActive {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if file.State != genai.FileStateActive {
		return "", fmt.Errorf("audio file did not become active in time")
	}

	model := c.GenerativeModel(tier.ID)
	model.SetTemperature(0)
	if tier.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(tier.MaxOutputTokens)
	}

	prompt := "Transcribe the provided audio verbatim. Return plain text only, without markdown, headers, or explanations."
	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.FileData{MIMEType: mimeType, URI: file.URI},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini transcription error: %w", geminiError(err))
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty transcription")
	}
	return text, nil
}

func geminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &BackendError{Backend: "gemini", StatusCode: gerr.Code, Err: err}
	}
	return err
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
