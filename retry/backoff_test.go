package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpBackoff_Delay(t *testing.T) {
	t.Parallel()

	backoff := ExpBackoff{
		Base:   time.Second,
		Factor: 2.0,
	}

	tests := []struct {
		attempt uint
		want    time.Duration
	}{
		{attempt: 0, want: time.Second},
		{attempt: 1, want: 2 * time.Second},
		{attempt: 2, want: 4 * time.Second},
		{attempt: 3, want: 8 * time.Second},
		{attempt: 5, want: 32 * time.Second},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, backoff.Delay(tc.attempt), "attempt %d", tc.attempt)
	}
}

func TestExpBackoff_NeverBelowBase(t *testing.T) {
	t.Parallel()

	backoff := ExpBackoff{
		Base:   time.Second,
		Factor: 0.5,
	}

	assert.Equal(t, time.Second, backoff.Delay(3))
}

func TestConstantBackoff_Delay(t *testing.T) {
	t.Parallel()

	backoff := ConstantBackoff(2 * time.Second)

	assert.Equal(t, 2*time.Second, backoff.Delay(0))
	assert.Equal(t, 2*time.Second, backoff.Delay(7))
}

func TestNextDelay_CappedAtCeiling(t *testing.T) {
	t.Parallel()

	opts := readOptions(WithJitter(WithoutJitter))

	// Attempt 10 at 1s base would be 1024s uncapped.
	assert.Equal(t, 30*time.Second, nextDelay(opts, 10, assert.AnError))
}

func TestNextDelay_JitterEnvelope(t *testing.T) {
	t.Parallel()

	opts := readOptions(WithBackoff(ExpBackoff{Base: time.Second, Factor: 2.0}))

	// For attempt i the delay must fall in [base*2^i, base*2^i*1.3).
	for attempt := uint(0); attempt < 4; attempt++ {
		lower := time.Duration(1<<attempt) * time.Second
		upper := time.Duration(float64(lower) * 1.3)

		for range 50 {
			d := nextDelay(opts, attempt, assert.AnError)
			assert.GreaterOrEqual(t, d, lower, "attempt %d", attempt)
			assert.Less(t, d, upper, "attempt %d", attempt)
		}
	}
}

func TestNextDelay_WaitHintWins(t *testing.T) {
	t.Parallel()

	opts := readOptions(WithJitter(WithoutJitter))

	hint := &hintedError{wait: 5 * time.Second}
	assert.Equal(t, 5*time.Second, nextDelay(opts, 3, hint),
		"retry-after overrides the computed backoff exactly")
}
