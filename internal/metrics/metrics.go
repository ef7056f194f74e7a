// Package metrics holds the Prometheus instruments of a studybuddy process.
// Short-lived CLI runs write them to a node_exporter textfile on exit.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"studybuddy/internal/domain"
)

// Registry collects every studybuddy metric.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// EUtils metrics
	EUtilsRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studybuddy_eutils_requests_total",
			Help: "EUtils requests by endpoint and outcome (success, retry, failure, rejected)",
		},
		[]string{"endpoint", "outcome"},
	)

	EUtilsRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studybuddy_eutils_request_duration_seconds",
			Help:    "Duration of EUtils requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "studybuddy_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studybuddy_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Clustering metrics
	ClusteringDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "studybuddy_clustering_duration_seconds",
			Help:    "Duration of clustering runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	ClusteringRecords = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "studybuddy_clustering_records",
			Help: "Records considered by the last clustering run",
		},
	)

	ClustersEmitted = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "studybuddy_clusters_emitted",
			Help: "Clusters produced by the last clustering run",
		},
	)

	ClusteringAnomalies = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "studybuddy_clustering_anomalies",
			Help: "Anomalies reported by the last clustering run, by kind",
		},
		[]string{"kind"},
	)

	// Card metrics
	Cards = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studybuddy_cards_total",
			Help: "Flash cards by outcome (generated, reused, failed)",
		},
		[]string{"outcome"},
	)
)

// RecordRun publishes the outcome of a clustering run.
func RecordRun(run *domain.Run, elapsed time.Duration) {
	ClusteringDuration.Observe(elapsed.Seconds())
	ClusteringRecords.Set(float64(run.Stats.Records))
	ClustersEmitted.Set(float64(len(run.Clusters)))

	anomalies := map[string]int{
		"duplicate_records":      run.Stats.DuplicateRecords,
		"malformed_tree_numbers": run.Stats.MalformedTreeNumbers,
		"unknown_subjects":       run.Stats.UnknownSubjects,
		"unresolved_nodes":       run.Stats.UnresolvedNodes,
		"fallbacks":              run.Stats.Fallbacks,
		"reassigned":             run.Stats.Reassigned,
		"unclustered":            run.Stats.Unclustered,
	}
	for kind, n := range anomalies {
		ClusteringAnomalies.WithLabelValues(kind).Set(float64(n))
	}
}

// RecordCards publishes card generation counts.
func RecordCards(generated, reused, failed int) {
	Cards.WithLabelValues("generated").Add(float64(generated))
	Cards.WithLabelValues("reused").Add(float64(reused))
	Cards.WithLabelValues("failed").Add(float64(failed))
}

// WriteTextfile writes every metric to path in the Prometheus text format.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
