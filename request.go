package deckly

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/deckly/deckly-go/apierror"
	"github.com/deckly/deckly-go/retry"
)

// responseBodyLimit bounds how much of a response body is read into memory.
// Generation results are small JSON documents; anything bigger is a server
// misbehavior, not a payload to buffer.
const responseBodyLimit = 8 << 20 // 8 MiB

// bodyBuilder produces a fresh request body for one attempt. Bodies are
// rebuilt per attempt because a retried request cannot reuse a consumed
// reader. It returns the reader, the Content-Type, and any error, which must
// already be classified.
type bodyBuilder func() (io.Reader, string, error)

// RequestOption tweaks a single API call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	maxRetries int
	body       bodyBuilder
}

// WithMaxRetries overrides the client's retry budget for this call.
// Zero performs exactly one attempt.
func WithMaxRetries(n int) RequestOption {
	return func(o *requestOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// withBodyBuilder supplies a non-JSON request body, such as a multipart
// upload. Used internally by UploadFiles.
func withBodyBuilder(build bodyBuilder) RequestOption {
	return func(o *requestOptions) {
		o.body = build
	}
}

// Request is the generic entry point every typed operation routes through. It
// marshals body (when non-nil) as JSON unless an option supplies its own body,
// executes the attempt inside the retry engine, and decodes a 2xx response
// into out (when non-nil). Every returned error is a classified
// *apierror.Error.
func (c *Client) Request(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	reqOpts := &requestOptions{
		maxRetries: c.maxRetries,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(reqOpts)
		}
	}

	if reqOpts.body == nil && body != nil {
		reqOpts.body = c.jsonBody(body)
	}

	if c.deadline > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.deadline)
		defer cancel()
	}

	runner := retry.NewRunner(
		retry.WithAttempts(retry.Attempts(reqOpts.maxRetries+1)), //nolint:gosec // G115: bounded small int
		retry.WithBackoff(retry.ExpBackoff{Base: c.baseDelay, Factor: 2.0}),
	)

	err := runner.Do(ctx, func(ctx context.Context) error {
		return c.attempt(ctx, method, path, reqOpts.body, out)
	})

	return classifyCallError(err)
}

// attempt performs exactly one HTTP try: build the request, send it, and map
// the outcome to a success value or a classified error.
func (c *Client) attempt(ctx context.Context, method, path string, build bodyBuilder, out any) error {
	request, err := c.newRequest(ctx, method, path, build)
	if err != nil {
		return err
	}

	rsp, err := c.httpClient.Do(request)
	if err != nil {
		return apierror.FromTransport(err)
	}
	defer rsp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(io.LimitReader(rsp.Body, responseBodyLimit))
	if err != nil {
		return apierror.FromTransport(err)
	}

	if rsp.StatusCode >= http.StatusBadRequest {
		return apierror.FromResponse(rsp, payload)
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return apierror.Malformed(rsp, err)
		}
	}

	return nil
}

// newRequest assembles one attempt's http.Request with authentication and
// diagnostic headers. Each attempt carries its own client request id so
// retried attempts are distinguishable server-side.
func (c *Client) newRequest(ctx context.Context, method, path string, build bodyBuilder) (*http.Request, error) {
	var (
		reader      io.Reader
		contentType string
	)

	if build != nil {
		var err error

		reader, contentType, err = build()
		if err != nil {
			return nil, err
		}
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, fmt.Sprintf("invalid request: %v", err), err)
	}

	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("x-client-request-id", uuid.NewString())

	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	if c.compress && contentType == "application/json" {
		request.Header.Set("Content-Encoding", "gzip")
	}

	return request, nil
}

// jsonBody returns a builder that marshals v fresh on every attempt,
// optionally gzip-compressing the payload.
func (c *Client) jsonBody(v any) bodyBuilder {
	return func() (io.Reader, string, error) {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, "", apierror.Wrap(apierror.KindValidation,
				fmt.Sprintf("request body not serializable: %v", err), err)
		}

		if !c.compress {
			return bytes.NewReader(raw), "application/json", nil
		}

		var buf bytes.Buffer

		writer := gzip.NewWriter(&buf)
		if _, err := writer.Write(raw); err != nil {
			return nil, "", apierror.Wrap(apierror.KindValidation,
				fmt.Sprintf("request body compression failed: %v", err), err)
		}

		if err := writer.Close(); err != nil {
			return nil, "", apierror.Wrap(apierror.KindValidation,
				fmt.Sprintf("request body compression failed: %v", err), err)
		}

		return &buf, "application/json", nil
	}
}

// classifyCallError guarantees that nothing unclassified leaves the client.
// The retry engine surfaces raw context errors when the caller cancels during
// an attempt or a backoff wait; those become Canceled-kind errors here.
func classifyCallError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apierror.FromTransport(err)
	}

	return apierror.Wrap(apierror.KindServerOrTransient, err.Error(), err)
}
