// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation responses by filter stage",
		},
		[]string{"stage"}, // "strict", "relaxed", "unfiltered"
	)

	RecommendationCollabDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_collab_degraded_total",
			Help: "Total number of requests where the collaborative stage degraded to zeros",
		},
	)

	// Training Pipeline Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of training runs by outcome",
		},
		[]string{"outcome"}, // "promoted", "skipped", "failed"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Duration of full training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	TrainingSamples = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "training_samples",
			Help:    "Number of labeled samples per training run",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	ProductionModelF1 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "production_model_f1",
			Help: "F1 score of the currently promoted model",
		},
	)

	// Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "kind"}, // kind: "listing", "interaction", "profile"
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of store errors",
		},
		[]string{"operation"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages broadcast",
		},
	)
)

// RecordAPIRequest records an API request with its duration and status.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records a served recommendation response.
func RecordRecommendation(stage string, degraded bool, duration time.Duration) {
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationsServed.WithLabelValues(stage).Inc()
	if degraded {
		RecommendationCollabDegraded.Inc()
	}
}

// RecordTrainingRun records the outcome of a training run.
func RecordTrainingRun(outcome string, samples int, duration time.Duration) {
	TrainingRuns.WithLabelValues(outcome).Inc()
	TrainingDuration.Observe(duration.Seconds())
	if samples > 0 {
		TrainingSamples.Observe(float64(samples))
	}
}

// RecordStoreOperation records a store read or write.
func RecordStoreOperation(operation, kind string) {
	StoreOperations.WithLabelValues(operation, kind).Inc()
}

// RecordStoreError records a failed store operation.
func RecordStoreError(operation string) {
	StoreErrors.WithLabelValues(operation).Inc()
}
