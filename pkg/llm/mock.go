package llm

import (
	"context"
	"sync"
)

// MockResponse is one scripted turn for the MockClient.
type MockResponse struct {
	Result *Result
	Err    error
}

// MockClient provides a controllable Client implementation for testing.
// Scripted responses are consumed in order; once the script is exhausted
// every further call succeeds with a canned result.
type MockClient struct {
	mu     sync.Mutex
	model  string
	script []MockResponse
	calls  []Request
}

// NewMockClient creates a mock client with predefined responses.
func NewMockClient(script ...MockResponse) *MockClient {
	return &MockClient{model: "mock-model", script: script}
}

// Generate returns the next scripted response or error. It honors context
// cancellation the way a real transport would.
func (m *MockClient) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if len(m.script) == 0 {
		return &Result{Text: "mock response"}, nil
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return next.Result, nil
}

// ModelName returns the mock's model identifier.
func (m *MockClient) ModelName() string {
	return m.model
}

// Calls returns a copy of every request seen so far, in order.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request{}, m.calls...)
}
