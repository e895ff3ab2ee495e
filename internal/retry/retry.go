// Package retry wraps a fallible operation with bounded, linearly growing
// backoff. The policy is an explicit value so call sites share one
// definition instead of rebuilding closures.
package retry

import (
	"context"
	"time"
)

// Policy controls how an operation is retried. Only errors for which
// IsRetryable returns true are retried; everything else fails immediately.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	IsRetryable func(error) bool
}

// Default returns the engine-wide policy: 3 attempts, 1.5s base delay.
func Default(isRetryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1500 * time.Millisecond,
		IsRetryable: isRetryable,
	}
}

// Do runs op under the policy. The delay before attempt n+1 is
// BaseDelay * n, so waits never shrink. When attempts are exhausted the last
// error is returned unchanged, letting the caller distinguish exhaustion
// from an immediately fatal error via the error's own type.
func Do[T any](ctx context.Context, policy Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if policy.IsRetryable == nil || !policy.IsRetryable(err) {
			break
		}

		delay := policy.BaseDelay * time.Duration(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
