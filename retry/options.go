package retry

import "time"

// Option is a function that configures a Runner or ValueRunner.
// Options follow the functional options pattern for flexible configuration.
type Option func(*options)

// options holds the internal configuration for retry behavior.
type options struct {
	attempts Attempts      // Maximum number of attempts (initial call included)
	backoff  Backoff       // Backoff strategy for calculating delays
	jitter   Jitter        // Jitter proportion for randomizing delays
	maxDelay time.Duration // Ceiling on any single delay, jitter included
	timeout  Timeout       // Timeout for each individual attempt
}

// WithBackoff configures the backoff strategy for calculating retry delays.
//
// Example:
//
//	runner := retry.NewRunner(retry.WithBackoff(retry.ExpBackoff{
//	    Base:   time.Second,
//	    Factor: 2.0,
//	}))
func WithBackoff(b Backoff) Option {
	return func(o *options) {
		o.backoff = b
	}
}

// WithAttempts configures the maximum number of attempts, counting the initial
// call. A value of 1 performs exactly one try with no retries. A value of 0
// means unlimited retries (use with caution).
//
// Example:
//
//	runner := retry.NewRunner(retry.WithAttempts(5))
func WithAttempts(a Attempts) Option {
	return func(o *options) {
		o.attempts = a
	}
}

// WithTimeout configures a timeout for each individual retry attempt.
// If an attempt exceeds this duration, it will be canceled and retried.
//
// Example:
//
//	runner := retry.NewRunner(retry.WithTimeout(retry.Timeout(30 * time.Second)))
func WithTimeout(t Timeout) Option {
	return func(o *options) {
		o.timeout = t
	}
}

// WithJitter configures the jitter proportion for randomizing retry delays.
func WithJitter(j Jitter) Option {
	return func(o *options) {
		o.jitter = j
	}
}

// WithMaxDelay configures the ceiling applied to every computed delay after
// jitter. Zero disables the ceiling. Server wait hints (retry-after) are not
// subject to the ceiling; the server's word wins.
func WithMaxDelay(d time.Duration) Option {
	return func(o *options) {
		o.maxDelay = d
	}
}
