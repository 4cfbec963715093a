package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hintedError is a retryable error carrying a server wait hint, standing in
// for a rate-limit response.
type hintedError struct {
	wait time.Duration
}

func (e *hintedError) Error() string   { return "rate limited" }
func (e *hintedError) Temporary() bool { return true }
func (e *hintedError) RetryAfterHint() (time.Duration, bool) {
	return e.wait, e.wait > 0
}

// fastBackoff keeps test runs quick.
func fastBackoff() Option {
	return WithBackoff(ExpBackoff{
		Base:   2 * time.Millisecond,
		Factor: 2.0,
	})
}

func TestDo_Success(t *testing.T) {
	t.Parallel()

	callCount := 0
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, callCount)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()

	callCount := 0
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.New("temporary error") //nolint:err113 // Test error
		}

		return nil
	}, WithAttempts(5), fastBackoff())

	require.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestDo_ReturnsLastError(t *testing.T) {
	t.Parallel()

	callCount := 0
	lastErr := errors.New("attempt 3 failed") //nolint:err113 // Test error
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.New("earlier failure") //nolint:err113 // Test error
		}

		return lastErr
	}, WithAttempts(3), fastBackoff())

	require.Error(t, err)
	assert.Equal(t, lastErr, err, "the last observed error surfaces, not a synthetic one")
	assert.Equal(t, 3, callCount)
}

func TestDo_PermanentError(t *testing.T) {
	t.Parallel()

	callCount := 0
	testErr := errors.New("bad input") //nolint:err113 // Test error
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++

		return Abort(testErr)
	}, WithAttempts(5), fastBackoff())

	require.Error(t, err)
	require.ErrorIs(t, err, testErr, "should be able to unwrap to original error")
	assert.Equal(t, 1, callCount, "should not retry permanent errors")
}

func TestDo_SingleAttempt(t *testing.T) {
	t.Parallel()

	callCount := 0
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++

		return errors.New("still failing") //nolint:err113 // Test error
	}, WithAttempts(1), fastBackoff())

	require.Error(t, err)
	assert.Equal(t, 1, callCount, "one attempt means exactly one try, no retries")
}

func TestDo_WaitHintOverridesBackoff(t *testing.T) {
	t.Parallel()

	callCount := 0
	start := time.Now()
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++
		if callCount == 1 {
			return &hintedError{wait: 5 * time.Millisecond}
		}

		return nil
	}, WithAttempts(2), WithBackoff(ExpBackoff{Base: 500 * time.Millisecond, Factor: 2.0}))

	require.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.Less(t, time.Since(start), 250*time.Millisecond,
		"the 5ms hint should replace the 500ms computed backoff")
}

func TestDo_NoDelayAfterFinalAttempt(t *testing.T) {
	t.Parallel()

	callCount := 0
	start := time.Now()
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++

		return errors.New("always fails") //nolint:err113 // Test error
	}, WithAttempts(2), WithJitter(WithoutJitter),
		WithBackoff(ExpBackoff{Base: 100 * time.Millisecond, Factor: 2.0}))

	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, 2, callCount)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond, "one delay between the two attempts")
	assert.Less(t, elapsed, 200*time.Millisecond, "no delay after the final attempt")
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := Do(ctx, func(ctx context.Context) error {
		return errors.New("should not matter") //nolint:err113 // Test error
	}, WithAttempts(5), fastBackoff())

	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
}

func TestDo_ContextCanceledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	callCount := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func(ctx context.Context) error {
		callCount++

		return errors.New("transient") //nolint:err113 // Test error
	}, WithAttempts(5), WithJitter(WithoutJitter),
		WithBackoff(ExpBackoff{Base: time.Second, Factor: 2.0}))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount, "cancellation during backoff prevents the next attempt")
}

func TestDo_AttemptTracking(t *testing.T) {
	t.Parallel()

	var seen []uint

	err := Do(t.Context(), func(ctx context.Context) error {
		seen = append(seen, Attempt(ctx))
		if len(seen) < 3 {
			return errors.New("transient") //nolint:err113 // Test error
		}

		return nil
	}, WithAttempts(5), fastBackoff())

	require.NoError(t, err)
	assert.Equal(t, []uint{0, 1, 2}, seen)
}

func TestDo_UnlimitedAttempts(t *testing.T) {
	t.Parallel()

	callCount := 0
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++
		if callCount < 6 {
			return errors.New("transient") //nolint:err113 // Test error
		}

		return nil
	}, WithAttempts(0), WithJitter(WithoutJitter),
		WithBackoff(ConstantBackoff(time.Millisecond)))

	require.NoError(t, err)
	assert.Equal(t, 6, callCount)
}

func TestDo_WithTimeout(t *testing.T) {
	t.Parallel()

	callCount := 0
	err := Do(t.Context(), func(ctx context.Context) error {
		callCount++
		if callCount == 1 {
			// First attempt: wait for the per-attempt timeout to fire
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(200 * time.Millisecond):
				return errors.New("timeout didn't fire") //nolint:err113 // Test error
			}
		}

		return nil
	}, WithAttempts(3), WithTimeout(Timeout(20*time.Millisecond)), fastBackoff())

	require.NoError(t, err)
	assert.Equal(t, 2, callCount)
}

func TestDoValue_Success(t *testing.T) {
	t.Parallel()

	out, err := DoValue(t.Context(), func(ctx context.Context) (string, error) {
		return "deck-42", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "deck-42", out)
}

func TestDoValue_FailureReturnsZeroValue(t *testing.T) {
	t.Parallel()

	testErr := errors.New("nope") //nolint:err113 // Test error
	out, err := DoValue(t.Context(), func(ctx context.Context) (string, error) {
		return "partial", Abort(testErr)
	})

	require.ErrorIs(t, err, testErr)
	assert.Empty(t, out, "failed calls must not leak partial values")
}

func TestRunner_Reusable(t *testing.T) {
	t.Parallel()

	runner := NewRunner(WithAttempts(2), fastBackoff())

	// Each invocation starts a fresh attempt counter.
	for range 3 {
		callCount := 0
		err := runner.Do(t.Context(), func(ctx context.Context) error {
			callCount++
			if callCount == 1 {
				return errors.New("transient") //nolint:err113 // Test error
			}

			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, callCount)
	}
}
