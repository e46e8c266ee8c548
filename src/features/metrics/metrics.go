package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	PlaysIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonate_plays_ingested_total",
			Help: "Total number of plays inserted into the history",
		},
		[]string{"source"}, // "api", "lastfm", "import"
	)

	PlaysSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonate_plays_skipped_total",
			Help: "Total number of duplicate plays skipped during ingestion",
		},
		[]string{"source"},
	)

	EventsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonate_events_rejected_total",
			Help: "Total number of play events rejected by validation",
		},
		[]string{"source"},
	)

	IngestBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonate_ingest_batches_total",
			Help: "Total number of ingestion batches processed",
		},
		[]string{"source", "outcome"}, // outcome: "ok", "error"
	)

	// Syncer metrics
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonate_sync_runs_total",
			Help: "Total number of last.fm sync runs",
		},
		[]string{"outcome"},
	)

	ImportFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonate_import_files_total",
			Help: "Total number of history files imported from the watch directory",
		},
		[]string{"outcome"},
	)

	// API metrics
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonate_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonate_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
