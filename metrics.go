package deckly

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/deckly/deckly-go/apierror"
)

var (
	// pollSnapshotsTotal counts task snapshots observed by WaitForCompletion,
	// by reported status. The pending-to-terminal ratio approximates how many
	// poll round trips a typical generation costs.
	pollSnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "deckly_poll_snapshots_total",
		Help: "Task snapshots observed while polling, by status",
	}, []string{"status"})

	// uploadsTotal counts individual file uploads by outcome.
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "deckly_uploads_total",
		Help: "Files uploaded, by outcome",
	}, []string{"outcome"})
)

func recordSnapshot(status TaskStatus) {
	pollSnapshotsTotal.WithLabelValues(string(status)).Inc()
}

func recordUpload(err error) {
	outcome := "success"
	if err != nil {
		outcome = string(apierror.KindUploadFailed)
	}

	uploadsTotal.WithLabelValues(outcome).Inc()
}
