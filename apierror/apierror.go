// Package apierror defines the closed set of failure kinds the Deckly API client
// can surface, each tagged with its retry eligibility.
//
// Every failure that crosses the transport boundary is classified into exactly one
// Kind before it reaches caller code. Callers branch on Kind (not on error type
// identity) to decide how to react:
//
//	var apiErr *apierror.Error
//	if errors.As(err, &apiErr) {
//	    switch apiErr.Kind {
//	    case apierror.KindRateLimited:
//	        // back off and try later
//	    case apierror.KindAuthentication:
//	        // rotate credentials
//	    }
//	}
package apierror

import (
	"fmt"
	"time"
)

// Kind identifies one member of the failure taxonomy. The set is closed: every
// error produced by this module carries exactly one of the constants below.
type Kind string

const (
	// KindAuthentication covers 401/403 responses. Never retryable.
	KindAuthentication Kind = "authentication"

	// KindValidation covers client-side input rejection raised before any
	// network call. Never retryable.
	KindValidation Kind = "validation"

	// KindRateLimited covers 429 responses. Retryable; may carry a
	// server-specified wait duration from the retry-after header.
	KindRateLimited Kind = "rate_limited"

	// KindServerOrTransient covers network-layer failures (no response
	// received) and 5xx responses. Retryable.
	KindServerOrTransient Kind = "server_or_transient"

	// KindClientRequest covers 4xx responses other than auth and rate limit.
	// Non-retryable.
	KindClientRequest Kind = "client_request"

	// KindResponseMalformed covers response bodies that could not be parsed
	// as the expected structure. Non-retryable.
	KindResponseMalformed Kind = "response_malformed"

	// KindGenerationFailed means the remote generation job itself reported
	// failure, or completed without producing a result. Non-retryable.
	KindGenerationFailed Kind = "generation_failed"

	// KindUploadFailed means an input file could not be read or sent.
	// Retryable.
	KindUploadFailed Kind = "upload_failed"

	// KindCanceled means the caller's context was canceled or its deadline
	// expired while the call was in flight. Non-retryable.
	KindCanceled Kind = "canceled"
)

// retryable maps each kind to its retry eligibility. A kind that is absent is
// non-retryable.
var retryable = map[Kind]bool{ //nolint:gochecknoglobals
	KindRateLimited:       true,
	KindServerOrTransient: true,
	KindUploadFailed:      true,
}

// Retryable reports whether errors of this kind may be retried.
func (k Kind) Retryable() bool {
	return retryable[k]
}

// Error is a classified API failure. It is created once per failed attempt and
// never mutated afterwards.
type Error struct {
	// Kind is the taxonomy member this failure belongs to.
	Kind Kind

	// Message is a human-readable description of the failure.
	Message string

	// HTTPStatus is the response status code, or 0 when no response was
	// received (transport-level failures, validation failures).
	HTTPStatus int

	// RequestID is the server-assigned request identifier from the
	// x-request-id response header, when present.
	RequestID string

	// RetryAfter is the server-specified wait duration from a rate-limit
	// response, when present. Zero means unset.
	RetryAfter time.Duration

	// Detail carries server-reported error detail for generation failures.
	Detail string

	// cause is the underlying error, if any, for errors.Is/As traversal.
	cause error
}

// New creates a classified error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a classified error that wraps an underlying cause. The cause
// remains reachable through errors.Is and errors.As.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("deckly: %s: %s", e.Kind, e.Message)

	if e.HTTPStatus != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.HTTPStatus)
	}

	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request id %s)", msg, e.RequestID)
	}

	return msg
}

// Unwrap returns the underlying cause, supporting error chain traversal.
func (e *Error) Unwrap() error {
	return e.cause
}

// Temporary reports whether the failure is transient and the operation may be
// retried. This feeds the retry engine's permanent-error detection.
func (e *Error) Temporary() bool {
	return e.Kind.Retryable()
}

// RetryAfterHint returns the server-specified wait duration and whether one is
// present. When set, it takes precedence over computed backoff for one attempt.
func (e *Error) RetryAfterHint() (time.Duration, bool) {
	return e.RetryAfter, e.RetryAfter > 0
}

// Compile-time assertion that Error satisfies the error interface.
var _ error = (*Error)(nil)
