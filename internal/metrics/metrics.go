package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsWritten counts records persisted, by operation (append, merge, overwrite).
	RecordsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_records_written_total",
		Help: "Survey records written to a project partition.",
	}, []string{"operation"})

	// SubmissionsRejected counts form submissions blocked by validation.
	SubmissionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "survey_submissions_rejected_total",
		Help: "Form submissions rejected before reaching the record store.",
	})

	// LocationEvents counts state machine events by kind and outcome.
	LocationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_location_events_total",
		Help: "Location events processed, labelled by kind and whether they changed state.",
	}, []string{"kind", "changed"})

	// OverlayDownloads counts road overlay downloads by status.
	OverlayDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_overlay_downloads_total",
		Help: "Road overlay download attempts by result status.",
	}, []string{"status"})

	// OverlayQueryDuration observes the geodata service round trip.
	OverlayQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "survey_overlay_query_duration_seconds",
		Help:    "Time spent waiting for the geodata query service.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	})

	// OverlayCacheReads counts overlay reads served from memory or from disk.
	OverlayCacheReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_overlay_cache_reads_total",
		Help: "Overlay reads by source (memory, disk, absent).",
	}, []string{"source"})
)
