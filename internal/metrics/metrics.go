package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportsTotal counts import runs by source and final session status
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_imports_total",
			Help: "Total number of import runs",
		},
		[]string{"source", "status"},
	)

	// RecordsProcessed counts individual listing records by outcome
	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_records_processed_total",
			Help: "Total number of listing records processed",
		},
		[]string{"outcome"},
	)

	// SyncDuration tracks how long a reconciliation pass takes
	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_sync_duration_seconds",
			Help:    "Database sync duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// NotificationsSent counts SMS notification attempts by status
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_notifications_total",
			Help: "Total number of SMS notifications attempted",
		},
		[]string{"status"},
	)

	// ActiveListings tracks the current number of active apartments
	ActiveListings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_active_listings",
			Help: "Current number of active apartment listings",
		},
	)

	// FeedFetches counts scheduled feed fetches by source and status
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_feed_fetches_total",
			Help: "Total number of feed fetch attempts",
		},
		[]string{"source", "status"},
	)
)
