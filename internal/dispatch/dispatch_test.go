package dispatch

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tribunal-ai/tribunal/internal/providers"
	"github.com/tribunal-ai/tribunal/internal/registry"
	"github.com/tribunal-ai/tribunal/internal/retry"
)

var testPrompt = Prompt{System: "You are a grader.", User: "Evaluate this."}

// mockFactory hands every kind the same scripted adapter.
func mockFactory(mock *providers.MockAdapter) func(registry.Kind) (providers.Adapter, error) {
	return func(kind registry.Kind) (providers.Adapter, error) {
		return mock, nil
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		IsRetryable: providers.IsRetryable,
	}
}

func TestDispatchAllSucceed(t *testing.T) {
	mock := providers.NewMockAdapter(registry.KindOpenAI)
	mock.Respond = func(req *providers.Request) (*providers.Response, error) {
		return &providers.Response{Content: `{"ok": true}`, LatencyMs: 5}, nil
	}

	d := New(registry.Default(),
		WithAdapterFactory(mockFactory(mock)),
		WithRetryPolicy(fastPolicy()),
		WithLogger(quietLogger()))

	result, err := d.Dispatch(context.Background(), []string{"gpt-4o", "claude-3-opus", "copilot-sonnet"}, testPrompt)
	require.NoError(t, err)
	require.Len(t, result.Responses, 3)
	require.Empty(t, result.Errors)
	require.GreaterOrEqual(t, result.LatencyMs, int64(0))
}

func TestDispatchPartialFailure(t *testing.T) {
	mock := providers.NewMockAdapter(registry.KindOpenAI)
	mock.Respond = func(req *providers.Request) (*providers.Response, error) {
		if req.BackendModel == "claude-3-opus-20240229" {
			return nil, &providers.ProviderError{
				Kind:       registry.KindAnthropic,
				StatusCode: 500,
				Message:    "internal error",
				Transient:  false,
			}
		}
		return &providers.Response{Content: `{}`, LatencyMs: 1}, nil
	}

	d := New(registry.Default(),
		WithAdapterFactory(mockFactory(mock)),
		WithRetryPolicy(fastPolicy()),
		WithLogger(quietLogger()))

	result, err := d.Dispatch(context.Background(), []string{"gpt-4o", "claude-3-opus", "gpt-4"}, testPrompt)
	require.NoError(t, err)
	require.Len(t, result.Responses, 2)
	require.Contains(t, result.Responses, "gpt-4o")
	require.Contains(t, result.Responses, "gpt-4")

	var provErr *providers.ProviderError
	require.ErrorAs(t, result.Errors["claude-3-opus"], &provErr)
}

func TestDispatchRetriesTransientFailures(t *testing.T) {
	attempts := 0
	mock := providers.NewMockAdapter(registry.KindOpenAI)
	mock.Respond = func(req *providers.Request) (*providers.Response, error) {
		attempts++
		if attempts < 3 {
			return nil, &providers.ProviderError{
				Kind:       registry.KindOpenAI,
				StatusCode: 429,
				Message:    "rate limited",
				Transient:  true,
			}
		}
		return &providers.Response{Content: `{}`, LatencyMs: 1}, nil
	}

	d := New(registry.Default(),
		WithAdapterFactory(mockFactory(mock)),
		WithRetryPolicy(fastPolicy()),
		WithLogger(quietLogger()))

	result, err := d.Dispatch(context.Background(), []string{"gpt-4o"}, testPrompt)
	require.NoError(t, err)
	require.Len(t, result.Responses, 1)
	require.Equal(t, 3, attempts)
}

func TestDispatchUnknownModel(t *testing.T) {
	mock := providers.NewMockAdapter(registry.KindOpenAI)
	d := New(registry.Default(),
		WithAdapterFactory(mockFactory(mock)),
		WithLogger(quietLogger()))

	result, err := d.Dispatch(context.Background(), []string{"gpt-4o", "gpt-9000"}, testPrompt)
	require.NoError(t, err)
	require.Len(t, result.Responses, 1)

	var invalid *providers.InvalidModelError
	require.ErrorAs(t, result.Errors["gpt-9000"], &invalid)
	require.Equal(t, "gpt-9000", invalid.Model)
	require.Len(t, mock.Calls, 1) // only the known model was dispatched
}

func TestDispatchUnavailableProvider(t *testing.T) {
	mock := providers.NewMockAdapter(registry.KindOpenAI)
	mock.Availability = false

	d := New(registry.Default(),
		WithAdapterFactory(mockFactory(mock)),
		WithLogger(quietLogger()))

	result, err := d.Dispatch(context.Background(), []string{"gpt-4o"}, testPrompt)

	var noModels *NoAvailableModelsError
	require.ErrorAs(t, err, &noModels)
	require.Empty(t, result.Responses)

	var auth *providers.AuthenticationError
	require.ErrorAs(t, result.Errors["gpt-4o"], &auth)
}

func TestDispatchAllModelsFail(t *testing.T) {
	mock := providers.NewMockAdapter(registry.KindOpenAI)
	mock.Respond = func(req *providers.Request) (*providers.Response, error) {
		return nil, &providers.EmptyResponseError{Kind: registry.KindOpenAI, Model: req.BackendModel}
	}

	d := New(registry.Default(),
		WithAdapterFactory(mockFactory(mock)),
		WithRetryPolicy(retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, IsRetryable: providers.IsRetryable}),
		WithLogger(quietLogger()))

	result, err := d.Dispatch(context.Background(), []string{"gpt-4o", "claude-3-opus"}, testPrompt)

	var allFailed *AllModelsFailedError
	require.ErrorAs(t, err, &allFailed)
	require.Len(t, allFailed.Failures, 2)
	require.Equal(t, "claude-3-opus", allFailed.Failures[0].Model)
	require.Equal(t, "gpt-4o", allFailed.Failures[1].Model)
	require.Len(t, result.Errors, 2)
}

func TestDispatchBuildsRequestFromRegistry(t *testing.T) {
	mock := providers.NewMockAdapter(registry.KindOpenAI)
	d := New(registry.Default(),
		WithAdapterFactory(mockFactory(mock)),
		WithLogger(quietLogger()))

	_, err := d.Dispatch(context.Background(), []string{"gpt-4o"}, testPrompt)
	require.NoError(t, err)

	require.Len(t, mock.Calls, 1)
	req := mock.Calls[0]
	require.Equal(t, "gpt-4o", req.BackendModel)
	require.Equal(t, testPrompt.System, req.System)
	require.Equal(t, testPrompt.User, req.Prompt)
	require.Equal(t, 4096, req.MaxTokens)
	require.Equal(t, 45*time.Second, req.Timeout)
}
