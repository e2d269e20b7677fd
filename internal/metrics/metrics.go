// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package metrics

import (
	"strconv"
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
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 180}, // recommendations crawl for minutes
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

	// Crawl Metrics
	CrawlDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawl_duration_seconds",
			Help:    "Duration of recommendation network crawls in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 90, 120, 180, 300},
		},
	)

	CrawlGames = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawl_network_games",
			Help:    "Number of games in the recommendation network when the crawl stopped",
			Buckets: []float64{5, 10, 25, 50, 75, 90, 120, 200},
		},
	)

	CrawlEdgesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_edges_total",
			Help: "Total number of recommendation edges added by crawls",
		},
	)

	CrawlStops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_stops_total",
			Help: "Total number of crawls by stop reason",
		},
		[]string{"reason"}, // "target_reached", "frontier_exhausted", "deadline"
	)

	CrawlFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_fetch_errors_total",
			Help: "Total number of collaborator failures tolerated during crawls",
		},
	)

	CrawlMetadataSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_metadata_skipped_total",
			Help: "Total number of games skipped because store metadata was unavailable",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 90, 120, 180, 300},
		},
	)

	// Steam Upstream Metrics
	SteamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steam_requests_total",
			Help: "Total number of requests sent to Steam",
		},
		[]string{"endpoint", "status_code"},
	)

	SteamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steam_request_duration_seconds",
			Help:    "Steam request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	SteamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steam_retries_total",
			Help: "Total number of Steam requests retried after HTTP 429",
		},
		[]string{"endpoint"},
	)

	SteamRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "steam_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the outbound rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
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

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache", "layer"}, // layer: "memory", "store"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of in-memory cache entries",
		},
		[]string{"cache"},
	)

	// Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of game store operations",
		},
		[]string{"operation", "result"},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_gc_runs_total",
			Help: "Total number of value log GC passes",
		},
		[]string{"result"}, // "rewritten", "nothing", "error"
	)
)

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

// RecordSteamRequest records one Steam round trip. status is 0 when the
// request never produced a response.
func RecordSteamRequest(endpoint string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	SteamRequestsTotal.WithLabelValues(endpoint, code).Inc()
	SteamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSteamRetry records a retried Steam request.
func RecordSteamRetry(endpoint string) {
	SteamRetries.WithLabelValues(endpoint).Inc()
}

// RecordRateLimitWait records time spent blocked on the outbound limiter.
func RecordRateLimitWait(d time.Duration) {
	SteamRateLimitWait.Observe(d.Seconds())
}

// RecordCacheLookup records a cache lookup. layer is empty for a miss.
func RecordCacheLookup(cache, layer string) {
	if layer == "" {
		CacheMisses.WithLabelValues(cache).Inc()
		return
	}
	CacheHits.WithLabelValues(cache, layer).Inc()
}

// RecordStoreOperation records a game store read or write.
func RecordStoreOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(operation, result).Inc()
}
