package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-matcher/internal/types"
)

var testRetryPolicy = RetryPolicy{Attempts: 1, Delay: time.Millisecond}

func TestRetryTransientSucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := RetryTransient(context.Background(), testRetryPolicy, "test", func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestRetryTransientRecovers(t *testing.T) {
	calls := 0
	result, err := RetryTransient(context.Background(), testRetryPolicy, "test", func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &types.ErrTransientExternal{Op: "test", Err: errors.New("rate limited")}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestRetryTransientExhausted(t *testing.T) {
	calls := 0
	_, err := RetryTransient(context.Background(), testRetryPolicy, "test", func(context.Context) (string, error) {
		calls++
		return "", &types.ErrTransientExternal{Op: "test", Err: errors.New("still down")}
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)

	var transient *types.ErrTransientExternal
	assert.ErrorAs(t, err, &transient)
}

func TestRetryTransientNonTransientReturnsImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("bad request")
	_, err := RetryTransient(context.Background(), testRetryPolicy, "test", func(context.Context) (string, error) {
		calls++
		return "", boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryTransientCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryTransient(ctx, testRetryPolicy, "test", func(context.Context) (string, error) {
		calls++
		return "", nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
