// Package metrics holds the Prometheus instruments for the recommender and
// small helpers that record into them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation queries
	RecommendationQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendrec_recommendation_queries_total",
			Help: "Total number of recommendation queries by scoring mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "friendrec_recommendation_duration_seconds",
			Help:    "Latency of a two-hop recommendation query",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "friendrec_recommendation_candidates",
			Help:    "Number of two-hop candidates scored per query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Classifier training
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendrec_training_runs_total",
			Help: "Total number of classifier training runs",
		},
		[]string{"kind", "outcome"},
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "friendrec_training_duration_seconds",
			Help:    "Wall time of dataset construction plus model fitting",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"kind"},
	)

	ModelAccuracy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "friendrec_model_accuracy",
			Help: "Accuracy of the last trained model on its train and test splits",
		},
		[]string{"kind", "split"},
	)

	ModelStale = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "friendrec_model_stale",
			Help: "1 when the network changed after the last training run",
		},
	)

	// Network size
	NetworkUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "friendrec_network_users",
			Help: "Number of profiles in the network",
		},
	)

	NetworkFriendships = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "friendrec_network_friendships",
			Help: "Number of undirected friendships in the network",
		},
	)

	NetworkMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendrec_network_mutations_total",
			Help: "Applied network edits by operation",
		},
		[]string{"operation"},
	)

	// Graph database mirror
	GraphMirrorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendrec_graph_mirror_errors_total",
			Help: "Failed writes to the graph database mirror",
		},
		[]string{"operation"},
	)

	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendrec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "friendrec_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordRecommendation records one recommendation query.
func RecordRecommendation(mode string, candidates int, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	RecommendationQueries.WithLabelValues(mode, outcome).Inc()
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if err == nil {
		RecommendationCandidates.Observe(float64(candidates))
	}
}

// RecordTraining records one training run and, on success, its accuracies.
func RecordTraining(kind string, duration time.Duration, trainAcc, testAcc float64, err error) {
	if err != nil {
		TrainingRuns.WithLabelValues(kind, "error").Inc()
		return
	}
	TrainingRuns.WithLabelValues(kind, "success").Inc()
	TrainingDuration.WithLabelValues(kind).Observe(duration.Seconds())
	ModelAccuracy.WithLabelValues(kind, "train").Set(trainAcc)
	ModelAccuracy.WithLabelValues(kind, "test").Set(testAcc)
}

// SetNetworkSize publishes the current node and edge counts.
func SetNetworkSize(users, friendships int) {
	NetworkUsers.Set(float64(users))
	NetworkFriendships.Set(float64(friendships))
}

// SetModelStale flips the staleness gauge.
func SetModelStale(stale bool) {
	if stale {
		ModelStale.Set(1)
		return
	}
	ModelStale.Set(0)
}

// RecordAPIRequest records one HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
