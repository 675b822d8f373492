package generation

import "fmt"

// NewBackend builds the backend for a provider name. Only the Gemini
// backend supports audio transcription.
func NewBackend(provider, baseURL string, concurrentReqs int) (Backend, error) {
	switch provider {
	case "", "gemini":
		return NewGeminiBackend(concurrentReqs), nil
	case "openai":
		return NewOpenAIBackend(baseURL), nil
	case "anthropic":
		return NewAnthropicBackend(baseURL), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", provider)
	}
}
