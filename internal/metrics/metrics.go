// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Discovery Metrics
	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_requests_total",
			Help: "Total number of discovery requests by category and outcome",
		},
		[]string{"category", "outcome"}, // outcome: "complete", "cached", "stale", "config_error", "error", "all_failed"
	)

	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_duration_seconds",
			Help:    "Duration of discovery phases in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"category", "phase"}, // phase: "phase1", "phase2", "total"
	)

	DiscoveryResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_result_pois",
			Help:    "Number of POIs in a published discovery result",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"category"},
	)

	DiscoveryMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_dedup_merges_total",
			Help: "Total number of POI records collapsed into an existing record during deduplication",
		},
	)

	DiscoveryEpoch = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "discovery_current_epoch",
			Help: "Epoch token of the most recently issued discovery request",
		},
	)

	// Provider Adapter Metrics
	AdapterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of provider adapter calls",
		},
		[]string{"source", "result"}, // result: "success", "failure"
	)

	AdapterDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of provider adapter calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	AdapterRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_retries_total",
			Help: "Total number of provider retries after a failed attempt",
		},
		[]string{"source"},
	)

	AdapterExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_retries_exhausted_total",
			Help: "Total number of provider calls that failed every attempt",
		},
		[]string{"source"},
	)

	AdapterRateLimitWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the outbound provider rate limiter",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"source"},
	)

	ProviderHTTPResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_http_responses_total",
			Help: "Total number of upstream HTTP responses by source and status code",
		},
		[]string{"source", "code"}, // code: HTTP status or "error" for transport failures
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "result", "enrichment"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (capacity exceeded)",
		},
		[]string{"cache_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket broadcasts dropped because the hub queue was full",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAdapterCall records one provider adapter attempt.
func RecordAdapterCall(source string, duration time.Duration, err error) {
	AdapterDuration.WithLabelValues(source).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "failure"
	}
	AdapterRequests.WithLabelValues(source, result).Inc()
}

// RecordDiscovery records a finished discovery request.
func RecordDiscovery(category, outcome string, duration time.Duration, pois int) {
	DiscoveryRequests.WithLabelValues(category, outcome).Inc()
	DiscoveryDuration.WithLabelValues(category, "total").Observe(duration.Seconds())
	if outcome == "complete" || outcome == "cached" || outcome == "all_failed" {
		DiscoveryResultSize.WithLabelValues(category).Observe(float64(pois))
	}
}

// RecordPhase records the duration of one discovery phase.
func RecordPhase(category, phase string, duration time.Duration) {
	DiscoveryDuration.WithLabelValues(category, phase).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
