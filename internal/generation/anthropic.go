package generation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicBackend struct {
	baseURL string

	mu      sync.Mutex
	clients map[string]*anthropic.Client
}

func NewAnthropicBackend(baseURL string) *AnthropicBackend {
	return &AnthropicBackend{
		baseURL: baseURL,
		clients: make(map[string]*anthropic.Client),
	}
}

func (b *AnthropicBackend) Name() string { return "anthropic" }

func (b *AnthropicBackend) client(apiKey string) *anthropic.Client {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.clients[apiKey]; ok {
		return c
	}
	// Retries belong to the fallback loop.
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	if b.baseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(b.baseURL))
	}
	c := anthropic.NewClient(opts...)
	b.clients[apiKey] = &c
	return &c
}

func (b *AnthropicBackend) Generate(ctx context.Context, tier Tier, credential string, req Request) (string, error) {
	maxTokens := int64(req.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(tier.ID),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(req.Prompt),
				},
			},
		},
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(req.Temperature))
	}
	if req.TopP > 0 {
		params.TopP = anthropic.Float(float64(req.TopP))
	}
	if req.TopK > 0 {
		params.TopK = anthropic.Int(int64(req.TopK))
	}

	msg, err := b.client(credential).Messages.New(ctx, params)
	if err != nil {
		return "", anthropicError(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func anthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &BackendError{Backend: "anthropic", StatusCode: apiErr.StatusCode, Err: err}
	}
	return err
}
