// Package deckly is the Go client for the Deckly presentation-generation API.
//
// A Client turns typed method calls into authenticated HTTP requests, retries
// transient failures with exponential backoff, and polls asynchronous
// generation tasks until they finish.
//
// Basic usage:
//
//	client, err := deckly.New(deckly.Config{APIKey: os.Getenv("DECKLY_API_KEY")})
//	if err != nil {
//	    return err
//	}
//
//	deck, err := client.Generate(ctx, deckly.GenerateOptions{
//	    Topic:      "Quarterly results",
//	    SlideCount: 12,
//	})
//
// Failures surface as *apierror.Error values; branch on their Kind:
//
//	var apiErr *apierror.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == apierror.KindRateLimited {
//	    // back off and try later
//	}
package deckly

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/deckly/deckly-go/apierror"
	"github.com/deckly/deckly-go/transport"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.deckly.dev/v1"

	defaultMaxRetries   = 3
	defaultBaseDelay    = time.Second
	defaultPollInterval = 2 * time.Second
	defaultHTTPTimeout  = 5 * time.Minute
)

// Config holds the client configuration. It is copied at construction and
// never read again from the caller's value, so a Client is immutable and safe
// for any number of concurrent calls.
type Config struct {
	// APIKey authenticates every request via the Authorization header.
	// Required.
	APIKey string

	// BaseURL overrides the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// MaxRetries is the number of retries after the initial attempt for
	// retryable failures. Zero means the default of 3; use -1 to disable
	// retries entirely.
	MaxRetries int

	// BaseDelay is the starting backoff delay. Defaults to 1s; delays double
	// per attempt with up to 30% jitter, capped at 30s.
	BaseDelay time.Duration

	// PollInterval is the default wait between task status checks.
	// Defaults to 2s.
	PollInterval time.Duration

	// Deadline, when positive, bounds each logical call end to end,
	// including retries, backoff waits, and polling.
	Deadline time.Duration

	// CompressRequests gzips JSON request bodies. Useful for generation
	// requests carrying large instruction payloads.
	CompressRequests bool

	// HTTPClient overrides the underlying HTTP client. When nil the client
	// builds its own with pooling, decompression, tracing, and logging.
	HTTPClient *http.Client

	// Logger receives structured request/response logs. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client is an immutable handle on the Deckly API. Concurrent calls share no
// retry counters or in-flight state; everything per-call is call-local.
type Client struct {
	apiKey       string
	baseURL      string
	maxRetries   int
	baseDelay    time.Duration
	pollInterval time.Duration
	deadline     time.Duration
	compress     bool
	httpClient   *http.Client
	logger       *slog.Logger
}

// New creates a Client from the given configuration, filling in defaults for
// zero-valued fields. It fails with a Validation-kind error when the
// configuration cannot produce a working client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, apierror.New(apierror.KindValidation, "API key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = defaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}

	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultHTTPTimeout,
			Transport: defaultTransport(cfg.Logger),
		}
	}

	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries:   cfg.MaxRetries,
		baseDelay:    cfg.BaseDelay,
		pollInterval: cfg.PollInterval,
		deadline:     cfg.Deadline,
		compress:     cfg.CompressRequests,
		httpClient:   httpClient,
		logger:       cfg.Logger,
	}, nil
}

// defaultTransport assembles the standard RoundTripper stack: pooled base
// transport with DNS caching, transparent decompression, a span per attempt,
// and redacted request logging outermost.
func defaultTransport(logger *slog.Logger) http.RoundTripper {
	rt := http.RoundTripper(transport.New(transport.EnableDNSCache))
	rt = transport.NewDecompressor(rt)
	rt = transport.NewTracing(rt)

	return transport.NewLogging(rt, logger)
}
