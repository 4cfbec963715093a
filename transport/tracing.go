package transport

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this instrumentation scope to the tracer provider.
const tracerName = "github.com/deckly/deckly-go/transport"

// NewTracing wraps roundTripper so that every HTTP attempt produces an
// OpenTelemetry client span carrying the method, URL, and response status.
// Spans go to the globally registered tracer provider; without one they are
// no-ops, so the wrapper is safe to keep in place unconditionally.
func NewTracing(roundTripper http.RoundTripper) http.RoundTripper {
	if roundTripper == nil {
		roundTripper = http.DefaultTransport
	}

	return &tracingTransport{
		roundTripper: roundTripper,
		tracer:       otel.Tracer(tracerName),
	}
}

type tracingTransport struct {
	roundTripper http.RoundTripper
	tracer       trace.Tracer
}

// Compile-time check that tracingTransport implements http.RoundTripper.
var _ http.RoundTripper = (*tracingTransport)(nil)

func (t *tracingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(request.Context(), "HTTP "+request.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", request.Method),
			attribute.String("url.full", request.URL.String()),
		),
	)
	defer span.End()

	response, err := t.roundTripper.RoundTrip(request.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return response, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", response.StatusCode))

	if response.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(response.StatusCode))
	}

	return response, nil
}
