package transport

import (
	"log/slog"
	"net/http"
)

// Headers whose values must never reach the logs in full.
const authorizationHeader = "Authorization"

// redactedPrefixLength is how much of a credential header survives redaction,
// enough to see the scheme ("Bearer ") without the key material.
const redactedPrefixLength = 7

// NewLogging wraps roundTripper with structured request/response logging.
// Requests and responses are logged at debug level, transport failures at
// error level. The Authorization header is redacted down to its scheme before
// logging. A nil logger falls back to slog.Default(); a nil roundTripper to
// http.DefaultTransport.
func NewLogging(roundTripper http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if roundTripper == nil {
		roundTripper = http.DefaultTransport
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &loggingTransport{
		roundTripper: roundTripper,
		logger:       logger,
	}
}

type loggingTransport struct {
	roundTripper http.RoundTripper
	logger       *slog.Logger
}

// Compile-time check that loggingTransport implements http.RoundTripper.
var _ http.RoundTripper = (*loggingTransport)(nil)

// RoundTrip logs the outgoing request, performs it, and logs the outcome.
// Request and response bodies are never logged; generation payloads can be
// large and uploads can contain customer material.
func (l *loggingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	l.logger.Debug("sending HTTP request",
		"method", request.Method,
		"url", request.URL.String(),
		"authorization", RedactCredential(request.Header.Get(authorizationHeader)),
	)

	response, err := l.roundTripper.RoundTrip(request)
	if err != nil {
		l.logger.Error("HTTP request failed",
			"method", request.Method,
			"url", request.URL.String(),
			"error", err,
		)

		return response, err
	}

	l.logger.Debug("received HTTP response",
		"method", request.Method,
		"url", request.URL.String(),
		"status", response.StatusCode,
		"request_id", response.Header.Get("x-request-id"),
	)

	return response, err
}

// RedactCredential reduces a credential header value to its scheme prefix plus
// a marker, e.g. "Bearer dk_live_123..." becomes "Bearer ***". Empty values
// stay empty.
func RedactCredential(value string) string {
	if value == "" {
		return ""
	}

	if len(value) <= redactedPrefixLength {
		return "***"
	}

	return value[:redactedPrefixLength] + "***"
}
