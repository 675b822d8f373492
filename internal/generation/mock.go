package generation

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// MockResponse is a canned response for the MockBackend.
type MockResponse struct {
	Text string
	Err  error
}

type MockCall struct {
	Tier       string
	Credential string
	Request    Request
}

// MockBackend is a deterministic Backend for testing. It returns canned
// responses in FIFO order and records every call.
type MockBackend struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []MockCall
}

func NewMockBackend(responses ...MockResponse) *MockBackend {
	return &MockBackend{responses: responses}
}

func (m *MockBackend) Name() string { return "mock" }

// Generate returns the next canned response, or a 503 once the queue is
// empty.
func (m *MockBackend) Generate(_ context.Context, tier Tier, credential string, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Tier: tier.ID, Credential: credential, Request: req})

	if len(m.responses) == 0 {
		return "", &BackendError{Backend: "mock", StatusCode: http.StatusServiceUnavailable, Err: errors.New("no scripted response")}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp.Text, resp.Err
}

func (m *MockBackend) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
