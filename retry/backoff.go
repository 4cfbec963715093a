package retry

import (
	"math"
	"time"
)

// Backoff is an interface for calculating the delay between retry attempts.
// Different backoff strategies can be implemented to control retry behavior.
type Backoff interface {
	// Delay calculates the duration to wait before the next retry attempt.
	// The attempt parameter is zero-indexed (0 for the delay after the first
	// failed attempt).
	Delay(attempt uint) time.Duration
}

// ExpBackoff implements exponential backoff: Base * Factor^attempt. The result
// is uncapped here; the runner applies jitter on top and then enforces its
// delay ceiling, so the ceiling bounds the jittered value rather than the raw
// exponential.
//
// Example:
//
//	backoff := retry.ExpBackoff{
//	    Base:   time.Second, // start at 1s
//	    Factor: 2.0,         // double each time
//	}
//	// Delays: 1s, 2s, 4s, 8s, ...
type ExpBackoff struct {
	// Base is the initial delay duration.
	Base time.Duration
	// Factor is the multiplier applied to each successive delay (e.g., 2.0 for doubling).
	Factor float64
}

// Delay calculates the exponential backoff delay for the given attempt.
// The formula is: Base * Factor^attempt, never less than Base.
func (b ExpBackoff) Delay(attempt uint) time.Duration {
	f := float64(b.Base) * math.Pow(b.Factor, float64(attempt))

	d := time.Duration(f)
	if d < b.Base {
		return b.Base
	}

	return d
}

// ConstantBackoff waits the same duration between every attempt. Used for
// status polling, where the interval should not grow.
type ConstantBackoff time.Duration

// Delay returns the fixed interval regardless of the attempt index.
func (b ConstantBackoff) Delay(uint) time.Duration {
	return time.Duration(b)
}
