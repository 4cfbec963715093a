package retry

import (
	"math/rand"
	"time"
)

// Jitter is the proportion of random slack added on top of a computed backoff
// delay. Jitter prevents the "thundering herd" problem where many clients
// retry at the same instant, overwhelming the server.
//
// For a jitter value j and computed delay d, the final delay is uniform in
// [d, d + j*d). The value is additive, so the computed delay is always a lower
// bound and retry timing stays predictable:
//   - 0 (or negative): no jitter, exact delay
//   - 0.3: up to 30% slack (the default)
//   - 1.0: up to double the delay
type Jitter float64

// DefaultJitter adds up to 30% random slack on top of the computed delay.
const DefaultJitter Jitter = 0.3

// WithoutJitter disables jitter entirely, using the exact computed delay.
// Useful for tests and for deterministic retry timing.
const WithoutJitter Jitter = 0.0

// apply returns the delay with jitter slack added: d + random(0, j*d).
func (j Jitter) apply(d time.Duration) time.Duration {
	if j <= 0.0 || d <= 0 {
		return d
	}

	//nolint:gosec // G404: math/rand is sufficient for jitter; crypto/rand is unnecessary overhead
	slack := rand.Float64() * float64(j) * float64(d)

	return d + time.Duration(slack)
}
