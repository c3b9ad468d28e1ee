package llm

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// RetryPolicy controls retries of transient provider failures.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// TransientRetryPolicy is the policy for external model calls: one retry
// after a flat delay. Callers that exhaust it classify the surviving error
// themselves (extraction failure vs degraded scoring).
var TransientRetryPolicy = RetryPolicy{Attempts: 1, Delay: 2 * time.Second}

// RetryTransient runs fn, retrying transient external failures per policy.
// Non-transient errors and context cancellation return immediately.
func RetryTransient[T any](ctx context.Context, policy RetryPolicy, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= policy.Attempts; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var transient *types.ErrTransientExternal
		if !errors.As(err, &transient) {
			return zero, err
		}

		if attempt < policy.Attempts {
			log.Printf("[RETRY] %s failed transiently, retrying in %s: %v", op, policy.Delay, err)
			select {
			case <-time.After(policy.Delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, lastErr
}
