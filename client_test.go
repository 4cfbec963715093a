package deckly

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckly/deckly-go/apierror"
)

// newTestClient starts an httptest server around handler and returns a client
// pointed at it, tuned for fast test retries.
func newTestClient(t *testing.T, handler http.Handler, tweak func(*Config)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{
		APIKey:       "dk_test_key",
		BaseURL:      server.URL,
		BaseDelay:    2 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		Logger:       slogt.New(t),
	}

	if tweak != nil {
		tweak(&cfg)
	}

	client, err := New(cfg)
	require.NoError(t, err)

	return client
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindValidation, apiErr.Kind)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	client, err := New(Config{APIKey: "dk_test_key"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, defaultMaxRetries, client.maxRetries)
	assert.Equal(t, defaultBaseDelay, client.baseDelay)
	assert.Equal(t, defaultPollInterval, client.pollInterval)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.logger)
}

func TestNew_TrimsBaseURL(t *testing.T) {
	t.Parallel()

	client, err := New(Config{APIKey: "dk_test_key", BaseURL: "https://example.test/api/"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/api", client.baseURL)
}

func TestNew_NegativeMaxRetriesDisablesRetries(t *testing.T) {
	t.Parallel()

	client, err := New(Config{APIKey: "dk_test_key", MaxRetries: -1})
	require.NoError(t, err)

	assert.Equal(t, 0, client.maxRetries)
}

// kindOf extracts the taxonomy kind from an error, failing the test when the
// error is not classified.
func kindOf(t *testing.T, err error) apierror.Kind {
	t.Helper()

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr), "expected a classified error, got %v", err)

	return apiErr.Kind
}
