package transport

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactCredential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "", want: ""},
		{name: "bearer token", value: "Bearer dk_live_secret123", want: "Bearer ***"},
		{name: "short value", value: "abc", want: "***"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, RedactCredential(tc.value))
		})
	}
}

func TestLogging_PassesResponseThrough(t *testing.T) {
	t.Parallel()

	stub := &stubRoundTripper{
		response: &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(bytes.NewBufferString("{}")),
		},
	}

	request := newRequest(t)
	request.Header.Set("Authorization", "Bearer dk_live_secret123")

	rsp, err := NewLogging(stub, slogt.New(t)).RoundTrip(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rsp.StatusCode)

	// The request itself keeps the real credential; only the log is redacted.
	require.Len(t, stub.requests, 1)
	assert.Equal(t, "Bearer dk_live_secret123", stub.requests[0].Header.Get("Authorization"))
}

func TestLogging_PropagatesError(t *testing.T) {
	t.Parallel()

	stub := &stubRoundTripper{err: assert.AnError}

	_, err := NewLogging(stub, slogt.New(t)).RoundTrip(newRequest(t))
	require.ErrorIs(t, err, assert.AnError)
}

func TestTracing_PassesResponseThrough(t *testing.T) {
	t.Parallel()

	stub := &stubRoundTripper{
		response: &http.Response{
			StatusCode: http.StatusAccepted,
			Header:     http.Header{},
			Body:       io.NopCloser(bytes.NewBufferString("{}")),
		},
	}

	rsp, err := NewTracing(stub).RoundTrip(newRequest(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, rsp.StatusCode)
}
