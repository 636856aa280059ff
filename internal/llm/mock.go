package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted LLMClient for tests and offline runs. Each
// call pops the next queued response; an empty queue returns Err if
// set, otherwise a fixed placeholder.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	Err       error

	// Calls records every prompt the client received, in order.
	Calls []string
}

// NewMockClient queues the given responses.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{responses: responses}
}

// Complete pops the next scripted response.
func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	return m.next(prompt)
}

// CompleteWithSystem pops the next scripted response; the system
// prompt is recorded but otherwise ignored.
func (m *MockClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return m.next(userPrompt)
}

func (m *MockClient) next(prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, prompt)
	if len(m.responses) == 0 {
		if m.Err != nil {
			return "", m.Err
		}
		return "mock response", nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp == "" && m.Err != nil {
		return "", m.Err
	}
	return resp, nil
}

// Remaining reports how many scripted responses are still queued.
func (m *MockClient) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}
