package generation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Request holds the prompt and the sampling parameters of one generation.
type Request struct {
	Prompt          string
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// Backend is a hosted text generation service. Implementations return the
// raw response text, or an error carrying as much of the backend's status
// as they can (see BackendError).
type Backend interface {
	Name() string
	Generate(ctx context.Context, tier Tier, credential string, req Request) (string, error)
}

// Client performs single attempts against a Backend and classifies them.
type Client struct {
	backend Backend
	timeout time.Duration
}

func NewClient(backend Backend, attemptTimeout time.Duration) *Client {
	return &Client{backend: backend, timeout: attemptTimeout}
}

// Attempt sends one request with one credential to one tier. It never
// returns an error: every failure is folded into the Outcome.
func (c *Client) Attempt(ctx context.Context, tier Tier, credential string, req Request) Outcome {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req.MaxOutputTokens = effectiveTokens(req.MaxOutputTokens, tier.MaxOutputTokens)

	text, err := c.backend.Generate(ctx, tier, credential, req)
	if err != nil {
		return Outcome{Kind: Classify(err), Message: err.Error()}
	}
	if strings.TrimSpace(text) == "" {
		return Outcome{Kind: OutcomeTransient, Message: fmt.Sprintf("empty response from %s", tier.ID)}
	}
	return Outcome{Kind: OutcomeSuccess, Text: text}
}

func (c *Client) Backend() Backend { return c.backend }
