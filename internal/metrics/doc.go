// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Recommendation network crawls (size, duration, stop reason)
  - Steam upstream requests, 429 retries and limiter waits
  - Circuit breaker state transitions
  - In-memory and Badger cache hit rates

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Engine Integration

Recorder implements recommend.Recorder so the engine can report crawls and
request outcomes without importing Prometheus:

	engine.SetRecorder(metrics.NewRecorder())

# Available Metrics

Crawl Metrics:
  - crawl_duration_seconds: Crawl wall time (histogram)
  - crawl_network_games: Games in the network at stop (histogram)
  - crawl_stops_total: Crawls by reason (counter)
    Labels: reason (target_reached, frontier_exhausted, deadline)

Steam Metrics:
  - steam_requests_total: Upstream requests (counter)
    Labels: endpoint, status_code
  - steam_retries_total: Requests retried after HTTP 429 (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
    Labels: name (steam-api, steam-store)
*/
package metrics
