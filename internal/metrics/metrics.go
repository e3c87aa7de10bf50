// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Analysis engine activity (config, pre-roll, setup recommendations)
// - ffprobe invocations and the circuit breaker guarding them
// - Device catalog store operations

var (
	// API endpoint metrics
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

	// Analysis engine metrics
	ConfigAnalysesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "config_analyses_total",
			Help: "Total number of matrix config analyses performed",
		},
	)

	ConfigFindingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_findings_total",
			Help: "Total config diagnostic findings by rule and severity",
		},
		[]string{"rule", "severity"},
	)

	PrerollAnalysesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "preroll_analyses_total",
			Help: "Total number of pre-roll format analyses performed",
		},
	)

	PrerollMismatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preroll_mismatches_total",
			Help: "Total pre-roll format mismatches by kind",
		},
		[]string{"kind"}, // "resolution", "dynamic_range", "frame_rate", "codec"
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "setup_recommendations_total",
			Help: "Total setup recommendations by goal",
		},
		[]string{"goal"},
	)

	// ffprobe metrics
	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ffprobe_duration_seconds",
			Help:    "ffprobe invocation duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffprobe_invocations_total",
			Help: "Total ffprobe invocations by outcome",
		},
		[]string{"outcome"}, // "success", "failure", "rejected"
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breakers by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	// Device store metrics
	DeviceStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "device_store_operations_total",
			Help: "Total custom device store operations",
		},
		[]string{"operation", "status"}, // operation: "put", "get", "list", "delete"
	)

	// Export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_exports_total",
			Help: "Total configuration exports by format",
		},
		[]string{"format"}, // "json", "commands"
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordConfigAnalysis records one config analysis and its findings.
func RecordConfigAnalysis(findings map[string]string) {
	ConfigAnalysesTotal.Inc()
	for rule, severity := range findings {
		ConfigFindingsTotal.WithLabelValues(rule, severity).Inc()
	}
}

// RecordPrerollAnalysis records one pre-roll analysis and the mismatch
// kinds it found.
func RecordPrerollAnalysis(mismatchKinds []string) {
	PrerollAnalysesTotal.Inc()
	for _, kind := range mismatchKinds {
		PrerollMismatchesTotal.WithLabelValues(kind).Inc()
	}
}

// RecordRecommendation records one setup recommendation per goal used.
func RecordRecommendation(goals []string) {
	for _, goal := range goals {
		RecommendationsTotal.WithLabelValues(goal).Inc()
	}
}

// RecordProbe records one ffprobe invocation.
func RecordProbe(outcome string, duration time.Duration) {
	ProbesTotal.WithLabelValues(outcome).Inc()
	if outcome != "rejected" {
		ProbeDuration.Observe(duration.Seconds())
	}
}

// RecordStoreOperation records one device store operation.
func RecordStoreOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	DeviceStoreOperations.WithLabelValues(operation, status).Inc()
}

// RecordExport records one config export.
func RecordExport(format string) {
	ExportsTotal.WithLabelValues(format).Inc()
}
