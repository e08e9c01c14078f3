package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, path and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AllotmentsSaved counts persisted allotment batches by outcome
	AllotmentsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allotment_batches_saved_total",
			Help: "Total number of allotment batch save attempts",
		},
		[]string{"outcome"},
	)

	// BillRowsReconciled counts reconciled bill rows by status
	BillRowsReconciled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bill_rows_reconciled_total",
			Help: "Total number of bill rows processed by reconciliation",
		},
		[]string{"status"},
	)
)
