package providers

import (
	"errors"
	"fmt"

	"github.com/tribunal-ai/tribunal/internal/registry"
)

// AuthenticationError means the provider's credentials are missing or were
// rejected. Never retried.
type AuthenticationError struct {
	Kind registry.Kind
}

func (e *AuthenticationError) Error() string {
	env := e.Kind.CredentialEnv()
	if env == "" {
		return fmt.Sprintf("%s: authentication failed", e.Kind)
	}
	return fmt.Sprintf("%s: missing or invalid credentials (set %s)", e.Kind, env)
}

func (e *AuthenticationError) Retryable() bool { return false }

// InvalidModelError means a logical model name has no registry entry, or the
// backend rejected the model identifier. Never retried.
type InvalidModelError struct {
	Model string
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Model)
}

func (e *InvalidModelError) Retryable() bool { return false }

// ProviderError is an upstream failure. Transient failures (rate limits,
// 5xx) are retryable; the rest are not.
type ProviderError struct {
	Kind       registry.Kind
	StatusCode int
	Message    string
	Transient  bool
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: provider error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: provider error: %s", e.Kind, e.Message)
}

func (e *ProviderError) Retryable() bool { return e.Transient }

// EmptyResponseError means the provider answered but produced no usable
// content. Retryable, since a second attempt usually yields text. The flag
// is binary, so an empty response shares the full retry budget with
// transient failures rather than getting a single extra attempt.
type EmptyResponseError struct {
	Kind  registry.Kind
	Model string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s: empty response from model %q", e.Kind, e.Model)
}

func (e *EmptyResponseError) Retryable() bool { return true }

// retryable is implemented by errors that carry their own retry flag.
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err is explicitly marked retryable. Errors
// without a flag - validation failures, context cancellation, plain errors -
// are never retried.
func IsRetryable(err error) bool {
	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}
