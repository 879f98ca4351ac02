package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cohergraph_evaluations_total",
			Help: "Total number of paragraph evaluations processed",
		},
		[]string{"status"},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cohergraph_evaluation_duration_seconds",
			Help:    "End-to-end evaluation duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	CoherenceScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cohergraph_coherence_score",
			Help:    "Distribution of coherence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	OracleFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cohergraph_oracle_failures_total",
			Help: "Model oracle calls that fell back to the heuristic score",
		},
	)
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
