package apierror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Response headers consulted during classification.
const (
	headerRequestID  = "x-request-id"
	headerRetryAfter = "retry-after"
)

// wireError is the error envelope the API returns in failure response bodies.
// Parsing it is best-effort: a body that doesn't match still classifies by
// status code alone.
type wireError struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// FromTransport classifies a failure where no HTTP response was received at
// all: dial errors, resets, TLS failures. Context cancellation is carved out
// as KindCanceled so callers can distinguish their own abort from a server
// problem; everything else is transient.
func FromTransport(err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindCanceled, "request aborted", err)
	}

	return Wrap(KindServerOrTransient, fmt.Sprintf("request failed: %v", err), err)
}

// FromResponse classifies a non-2xx HTTP response. The body, if it parsed as
// the standard error envelope, supplies the message and detail; otherwise the
// status text is used. The x-request-id header, when present, is attached for
// diagnostics.
func FromResponse(rsp *http.Response, body []byte) *Error {
	apiErr := &Error{
		Kind:       classifyStatus(rsp.StatusCode),
		Message:    http.StatusText(rsp.StatusCode),
		HTTPStatus: rsp.StatusCode,
		RequestID:  rsp.Header.Get(headerRequestID),
	}

	if we := decodeWireError(body); we != nil {
		if we.Message != "" {
			apiErr.Message = we.Message
		}

		apiErr.Detail = we.Detail
	}

	if apiErr.Kind == KindRateLimited {
		apiErr.RetryAfter = parseRetryAfter(rsp.Header.Get(headerRetryAfter))
	}

	return apiErr
}

// Malformed classifies a 2xx response whose body could not be decoded as the
// expected structure.
func Malformed(rsp *http.Response, cause error) *Error {
	apiErr := Wrap(KindResponseMalformed, fmt.Sprintf("unexpected response body: %v", cause), cause)
	apiErr.HTTPStatus = rsp.StatusCode
	apiErr.RequestID = rsp.Header.Get(headerRequestID)

	return apiErr
}

// decodeWireError attempts to parse the standard error envelope. Returns nil
// if the body is empty or doesn't look like the envelope.
func decodeWireError(body []byte) *wireError {
	if len(body) == 0 {
		return nil
	}

	var we wireError
	if err := json.Unmarshal(body, &we); err != nil {
		return nil
	}

	return &we
}

// classifyStatus maps an HTTP status code to its taxonomy kind.
func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthentication
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= http.StatusInternalServerError:
		return KindServerOrTransient
	default:
		return KindClientRequest
	}
}

// parseRetryAfter parses the retry-after header as integer seconds. Returns 0
// (unset) for missing or unparseable values; the caller then falls back to
// exponential backoff.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return 0
	}

	return time.Duration(secs) * time.Second
}
