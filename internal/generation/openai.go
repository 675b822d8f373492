package generation

import (
	"context"
	"errors"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend serves tiers from OpenAI or any OpenAI-compatible API
// (OpenRouter, local gateways) when BaseURL is set.
type OpenAIBackend struct {
	baseURL string

	mu      sync.Mutex
	clients map[string]*openai.Client
}

func NewOpenAIBackend(baseURL string) *OpenAIBackend {
	return &OpenAIBackend{
		baseURL: baseURL,
		clients: make(map[string]*openai.Client),
	}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) client(apiKey string) *openai.Client {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.clients[apiKey]; ok {
		return c
	}
	config := openai.DefaultConfig(apiKey)
	if b.baseURL != "" {
		config.BaseURL = b.baseURL
	}
	c := openai.NewClientWithConfig(config)
	b.clients[apiKey] = c
	return c
}

func (b *OpenAIBackend) Generate(ctx context.Context, tier Tier, credential string, req Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: tier.ID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxCompletionTokens: int(req.MaxOutputTokens),
		Temperature:         req.Temperature,
		TopP:                req.TopP,
	}

	resp, err := b.client(credential).CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", openAIError(err)
	}

	var text strings.Builder
	for _, choice := range resp.Choices {
		text.WriteString(choice.Message.Content)
	}
	return text.String(), nil
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{Backend: "openai", StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &BackendError{Backend: "openai", StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
