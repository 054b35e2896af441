package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsPublished counts availability-check commands published on the bus.
	RequestsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_requests_published_total",
			Help: "Total number of availability check requests published",
		},
		[]string{"store"},
	)

	// ResultsReceived counts worker results consumed from the bus.
	ResultsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_results_received_total",
			Help: "Total number of worker results received",
		},
		[]string{"store"},
	)

	// ResultsDropped counts inbound messages rejected at the boundary.
	ResultsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "availability_results_dropped_total",
			Help: "Total number of malformed worker results dropped",
		},
	)

	// ListingsFiltered tracks how many listings survive filtering per result.
	ListingsFiltered = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "availability_listings_matched",
			Help:    "Listings retained by the filter per worker result",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	// CacheHits counts availability cache hits by outcome.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_cache_lookups_total",
			Help: "Availability cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// TasksProcessed counts availability tasks consumed by the worker pool.
	TasksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_tasks_processed_total",
			Help: "Availability tasks processed by the worker pool",
		},
		[]string{"status"},
	)
)
