package mocks

import (
	"context"
	"sync"
)

// MockCompletionService is a scriptable CompletionService for testing.
// Responses are returned in order; when the script runs out, the last entry
// repeats. Err, when set, is returned for every call.
type MockCompletionService struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	ModelName string

	// Prompts records every prompt received, in order
	Prompts []string

	// ErrOnCall fails only the call with this 1-based index (0 = disabled)
	ErrOnCall int

	calls int
}

// NewMockCompletionService creates a mock that replies with the given responses
func NewMockCompletionService(responses ...string) *MockCompletionService {
	return &MockCompletionService{
		Responses: responses,
		ModelName: "mock-model",
	}
}

func (m *MockCompletionService) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil && (m.ErrOnCall == 0 || m.ErrOnCall == m.calls) {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := m.calls - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

func (m *MockCompletionService) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Calls returns how many times Complete was invoked
func (m *MockCompletionService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
