package retry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes recorded on the attempts counter.
const (
	outcomeSuccess   = "success"
	outcomeRetryable = "retryable_error"
	outcomePermanent = "permanent_error"
)

var (
	// attemptsTotal counts individual attempts by outcome and by whether the
	// attempt was a retry (attempt index > 0). The retry dimension makes the
	// retry amplification factor visible:
	//
	//	sum(rate(deckly_retry_attempts_total{is_retry="true"}[5m]))
	//	  / sum(rate(deckly_retry_attempts_total{is_retry="false"}[5m]))
	//
	// Prometheus metrics are intentionally global: they are registered once
	// and shared by every runner in the process.
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "deckly_retry_attempts_total",
		Help: "The total number of request attempts, by outcome",
	}, []string{"outcome", "is_retry"})

	// delaySeconds observes the backoff delays the runner actually slept for,
	// including jitter and retry-after overrides. Buckets span the default
	// backoff range: 1s base doubling up to the 30s ceiling.
	delaySeconds = promauto.NewHistogram(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "deckly_retry_delay_seconds",
		Help:    "Observed delay before each retry attempt",
		Buckets: []float64{0.1, 0.5, 1, 2, 4, 8, 16, 30},
	})
)

// recordAttempt records one finished attempt.
func recordAttempt(attemptIndex uint, outcome string) {
	attemptsTotal.WithLabelValues(outcome, strconv.FormatBool(attemptIndex > 0)).Inc()
}

// recordDelay records the wait inserted before the next attempt.
func recordDelay(d time.Duration) {
	delaySeconds.Observe(d.Seconds())
}
