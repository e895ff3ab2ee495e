package providers

import (
	"context"
	"sync"
	"time"

	"github.com/tribunal-ai/tribunal/internal/registry"
)

// MockAdapter is a scriptable adapter for testing the dispatcher and engine
// without network access. Respond is called once per Complete; when nil, a
// canned empty response is returned. Safe for concurrent Complete calls.
type MockAdapter struct {
	ProviderKind registry.Kind
	Availability bool
	Respond      func(req *Request) (*Response, error)

	mu sync.Mutex
	// Calls records every request received, in order.
	Calls []*Request
}

// NewMockAdapter creates a mock that is available and echoes a canned body.
func NewMockAdapter(kind registry.Kind) *MockAdapter {
	return &MockAdapter{ProviderKind: kind, Availability: true}
}

func (m *MockAdapter) Kind() registry.Kind { return m.ProviderKind }

func (m *MockAdapter) Available() bool { return m.Availability }

func (m *MockAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	if m.Respond != nil {
		start := time.Now()
		resp, err := m.Respond(req)
		if resp != nil && resp.LatencyMs == 0 {
			resp.LatencyMs = time.Since(start).Milliseconds()
		}
		return resp, err
	}

	return &Response{
		Content:   "{}",
		Tokens:    estimateTokens(req.Prompt, "{}"),
		LatencyMs: 1,
	}, nil
}
