// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

/*
Package api provides the HTTP REST API for Steam Waiter.

Endpoints:

	POST /api/v1/recommendations   run the pipeline for a profile or a seed list
	GET  /api/v1/questions         list the five questions and tree tuning
	GET  /api/v1/games/{appID}     store metadata for one game
	GET  /api/v1/health            status, uptime, engine counters, checks
	GET  /api/v1/health/live       liveness probe
	GET  /api/v1/health/ready      readiness probe (503 when a check fails)
	GET  /metrics                  Prometheus metrics

Request body for recommendations:

	{
	  "steam_id": "gabelogannewell",
	  "preferences": [
	    {"question": "genre", "genres": ["puzzle", "co-op"]},
	    {"question": "price", "price": 9.99},
	    {"question": "release_year", "year": 2011},
	    {"question": "online", "value": true},
	    {"question": "multiplayer", "value": false}
	  ]
	}

Exactly one of steam_id and games (a list of app ids) must be present. The
preferences are ordered by priority; the first is applied at the root of
the preference tree.

Response format:

All responses use the APIResponse envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 12}
	}

Errors carry a machine-readable code:

	{
	  "success": false,
	  "error": {"code": "NO_SEED_GAMES", "message": "...", "request_id": "..."}
	}

Middleware:

RequestID, RealIP, access logging, panic recovery, CORS and Prometheus
instrumentation wrap every route. API routes add security headers, gzip
compression and per-IP rate limits; recommendations have a much smaller
budget than reads since each one crawls Steam.
*/
package api
