package llm

import (
	"context"
	"sync"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
)

// MockClient is a configurable completion client for testing.
// Set Response to control what Complete returns.
type MockClient struct {
	mu       sync.Mutex
	Response domain.CompletionResult

	// Call tracking for assertions
	Calls []domain.CompletionRequest
}

func NewMockClient() *MockClient {
	return &MockClient{
		Response: domain.CompletionResult{OK: true, Text: "Mock completion", Tier: "mock"},
	}
}

func (c *MockClient) Complete(ctx context.Context, req domain.CompletionRequest) domain.CompletionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, req)
	return c.Response
}

// Reset clears all recorded calls and resets the response to its default.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Response = domain.CompletionResult{OK: true, Text: "Mock completion", Tier: "mock"}
	c.Calls = nil
}
