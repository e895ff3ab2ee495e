// Package providers contains the adapters that translate a generic grading
// request into each backend's wire format and normalize the response into a
// single shape. Adapters do not retry; that is the dispatcher's job.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tribunal-ai/tribunal/internal/models"
	"github.com/tribunal-ai/tribunal/internal/registry"
)

// Request is the provider-agnostic call shape built from a ModelConfig and
// the grading prompt.
type Request struct {
	BackendModel string
	System       string
	Prompt       string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
}

// Response is the normalized result of one provider call.
type Response struct {
	Content   string            `json:"content"`
	Tokens    models.TokenUsage `json:"tokens"`
	LatencyMs int64             `json:"latency_ms"`
	CostUSD   float64           `json:"cost_usd"`
}

// Adapter is the uniform interface to one backend. Implementations are a
// closed set selected by registry Kind.
type Adapter interface {
	// Kind returns the provider backend this adapter speaks to.
	Kind() registry.Kind

	// Available reports whether the adapter has usable credentials.
	Available() bool

	// Complete sends one grading request and returns the normalized response.
	// Failures are typed: AuthenticationError, InvalidModelError,
	// ProviderError, or EmptyResponseError.
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// New returns the adapter for the given provider kind.
func New(kind registry.Kind) (Adapter, error) {
	switch kind {
	case registry.KindOpenAI:
		return NewOpenAIAdapter(http.DefaultClient), nil
	case registry.KindAnthropic:
		return NewAnthropicAdapter(http.DefaultClient), nil
	case registry.KindCopilot:
		return NewCopilotAdapter(), nil
	default:
		return nil, fmt.Errorf("no adapter for provider kind %q", kind)
	}
}

// estimateTokens approximates token usage for providers that do not report
// it. Four characters per token is the usual rough heuristic.
func estimateTokens(prompt, completion string) models.TokenUsage {
	in := len(prompt) / 4
	out := len(completion) / 4
	return models.TokenUsage{Input: in, Output: out, Total: in + out}
}
