// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_queries_total",
			Help: "Total number of queries answered, by response source and routing decision",
		},
		[]string{"source", "decision"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orchestrator_query_duration_seconds",
			Help:    "Duration of query processing in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	ModelAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_model_attempts_total",
			Help: "Total number of generation attempts against candidate models",
		},
		[]string{"model", "outcome"},
	)

	ModelRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orchestrator_model_requests_in_flight",
			Help: "Number of generation requests currently held by the concurrency limiter",
		},
	)

	StatusRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_status_refreshes_total",
			Help: "Total number of backend status refreshes",
		},
		[]string{"result"},
	)

	BackendAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orchestrator_backend_available",
			Help: "1 when the last status refresh found the model backend reachable",
		},
	)

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_reports_generated_total",
			Help: "Total number of growth reports generated, by template",
		},
		[]string{"template"},
	)
)

// Attempt outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeEmpty    = "empty"
	OutcomeFailed   = "failed"
	OutcomeTimeout  = "timeout"
)
