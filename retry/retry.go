// Package retry implements the bounded retry loop used for every Deckly API
// request. It supports exponential backoff with proportional jitter, server
// wait hints (rate-limit retry-after), per-attempt timeouts, and attempt
// tracking.
//
// The package offers both simple one-shot functions (Do, DoValue) and reusable
// Runner interfaces for operations that need consistent retry behavior.
//
// Basic usage:
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//	    return makeAPICall()
//	})
//
// With custom options:
//
//	err := retry.Do(ctx, operation,
//	    retry.WithAttempts(5),
//	    retry.WithBackoff(retry.ExpBackoff{Base: time.Second, Factor: 2}),
//	    retry.WithJitter(retry.DefaultJitter),
//	)
//
// Retryability is driven by the errors the operation returns: an error
// implementing Error with Temporary() == false stops the loop immediately,
// and an error implementing WaitHinter overrides the computed backoff with
// the server-specified wait for that attempt.
package retry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const (
	defaultAttempts      = 4
	defaultBaseDelay     = 1000 // milliseconds
	defaultMaxDelay      = 30   // seconds
	defaultBackoffFactor = 2.0
)

// Runner is an interface for executing operations with retry logic.
// It handles errors and automatically retries based on the configured strategy.
type Runner interface {
	Do(ctx context.Context, f func(ctx context.Context) error) error
}

// ValueRunner is a generic interface for executing operations that return a
// value with retry logic, returning the successful result or the last error.
type ValueRunner[T any] interface {
	Do(ctx context.Context, f func(ctx context.Context) (T, error)) (T, error)
}

// NewRunner creates a new Runner with the specified options.
// If no options are provided, it uses the defaults:
//   - 4 attempts (initial call + 3 retries)
//   - Exponential backoff: 1s base, factor of 2
//   - Proportional jitter of 0.3 to prevent synchronized retry storms
//   - 30s ceiling on any single delay
func NewRunner(opts ...Option) Runner {
	return &runnerImpl{
		opts: readOptions(opts...),
	}
}

// NewValueRunner creates a new ValueRunner for operations that return a value,
// using the same defaults as NewRunner.
func NewValueRunner[T any](opts ...Option) ValueRunner[T] {
	return &valueRunnerImpl[T]{
		opts: readOptions(opts...),
	}
}

// readOptions builds the internal configuration from defaults plus the
// provided options.
func readOptions(opts ...Option) *options {
	intOpts := &options{
		attempts: Attempts(defaultAttempts),
		backoff: ExpBackoff{
			Base:   defaultBaseDelay * time.Millisecond,
			Factor: defaultBackoffFactor,
		},
		jitter:   DefaultJitter,
		maxDelay: defaultMaxDelay * time.Second,
	}

	for _, option := range opts {
		option(intOpts)
	}

	return intOpts
}

// runnerImpl is the concrete implementation of the Runner interface.
type runnerImpl struct {
	opts *options
}

// Do executes the provided function with retry logic according to the runner's
// configuration.
func (r *runnerImpl) Do(ctx context.Context, f func(ctx context.Context) error) error {
	return do(ctx, r.opts, f)
}

// valueRunnerImpl is the concrete implementation of the ValueRunner interface.
type valueRunnerImpl[T any] struct {
	opts *options
}

// Do executes the provided function with retry logic, returning the successful
// result or the last error encountered. On failure the zero value of T is
// returned alongside the error.
func (v valueRunnerImpl[T]) Do(ctx context.Context, f func(ctx context.Context) (T, error)) (T, error) {
	var out T

	err := do(ctx, v.opts, func(ctx context.Context) error {
		var err error

		out, err = f(ctx)

		return err
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return out, nil
}

// do is the core retry loop. It handles:
//   - Attempt tracking via context
//   - Timeout handling for each attempt
//   - Backoff, jitter, and server wait hints between retries
//   - Context cancellation during attempts and waits
//   - Permanent vs temporary error handling
//
// The loop never sleeps after the final attempt: the last observed error is
// returned as-is, so callers always see the underlying failure rather than a
// synthetic retries-exhausted error.
func do(ctx context.Context, opts *options, operation func(ctx context.Context) error) error {
	var err error

	var mut sync.Mutex

	running := atomic.NewBool(true)
	defer running.Store(false)

	// Every invocation starts a fresh attempt counter; the runner holds no
	// state across calls.
	for attemptIndex := uint(0); Attempts(attemptIndex) < opts.attempts || opts.attempts == 0; attemptIndex++ {
		// Add attempt number to context for tracking
		ctx := withAttempt(ctx, attemptIndex)

		// Create a new channel for each attempt to avoid race conditions
		// with goroutines from previous attempts
		errChan := make(chan error, 1)

		// Execute the operation in a goroutine to support timeout handling
		go func(ctx context.Context) {
			defer close(errChan)

			if opts.timeout != 0 {
				errChan <- callWithTimeout(ctx, operation, opts.timeout, &mut, running)
			} else {
				mut.Lock()
				defer mut.Unlock()

				if !running.Load() {
					return
				}

				errChan <- operation(ctx)
			}
		}(ctx)

		// Wait for either the operation to complete or context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err = <-errChan:
			if err == nil {
				recordAttempt(attemptIndex, outcomeSuccess)

				return nil
			}

			// Non-retryable errors propagate immediately regardless of the
			// remaining attempt budget.
			var retryErr Error
			if errors.As(err, &retryErr) && !retryErr.Temporary() {
				recordAttempt(attemptIndex, outcomePermanent)

				var p *permanentError
				if errors.As(err, &p) {
					return p.error
				}

				return err
			}

			recordAttempt(attemptIndex, outcomeRetryable)
		}

		// The last allowed attempt propagates its error without a trailing
		// delay.
		if opts.attempts != 0 && Attempts(attemptIndex+1) >= opts.attempts {
			return err
		}

		delay := nextDelay(opts, attemptIndex, err)
		recordDelay(delay)

		// Wait for the delay period, respecting context cancellation
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
			timer.Stop()
		}
	}

	return err
}

// nextDelay computes the wait before the next attempt. A server wait hint on
// the error (the rate-limit retry-after case) takes precedence over computed
// backoff for that attempt; otherwise the backoff delay with jitter applies,
// capped at the configured ceiling.
func nextDelay(opts *options, attemptIndex uint, err error) time.Duration {
	var hinter WaitHinter
	if errors.As(err, &hinter) {
		if wait, ok := hinter.RetryAfterHint(); ok {
			return wait
		}
	}

	delay := opts.jitter.apply(opts.backoff.Delay(attemptIndex))
	if opts.maxDelay > 0 && delay > opts.maxDelay {
		delay = opts.maxDelay
	}

	return delay
}

// callWithTimeout wraps a function call with a timeout. If the function does
// not complete within the specified timeout, it returns context.DeadlineExceeded.
func callWithTimeout(
	ctx context.Context,
	callback func(context.Context) error,
	timeout Timeout,
	mut *sync.Mutex,
	running *atomic.Bool,
) error {
	// Brief lock/unlock provides a memory barrier to ensure visibility of running flag
	mut.Lock()
	mut.Unlock() //nolint:staticcheck

	if !running.Load() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout))
	defer cancel()

	errChan := make(chan error, 1)

	go func(ctx context.Context) {
		defer close(errChan)

		mut.Lock()
		defer mut.Unlock()

		if !running.Load() {
			return
		}

		errChan <- callback(ctx)
	}(ctx)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Do is a convenience function that creates a Runner and executes the provided
// function with retry logic in a single call.
func Do(ctx context.Context, f func(ctx context.Context) error, opts ...Option) error {
	return NewRunner(opts...).Do(ctx, f)
}

// DoValue is a convenience function that creates a ValueRunner and executes the
// provided function with retry logic in a single call.
func DoValue[T any](ctx context.Context, f func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	return NewValueRunner[T](opts...).Do(ctx, f)
}
