// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

/*
Package main is the entry point for the Steam Waiter server.

Steam Waiter recommends games from a Steam profile (or a list of games) by
crawling the reviewers of the player's games, building a weighted graph of
what those reviewers own, and filtering the graph's best-liked games
through five ranked preference questions.

# Application Architecture

	RootSupervisor ("steamwaiter")
	├── DataSupervisor ("data-layer")
	│   └── MaintenanceService (cache sweeps, BadgerDB GC)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Store: BadgerDB metadata store (optional)
 4. Steam: rate-limited client, circuit breakers, metadata cache
 5. Engine: crawl, graph, preference tree, ranking
 6. API: Chi router with middleware stack
 7. Supervisor Tree: suture v4 process supervision

# Configuration

Key environment variables:

	STEAM_API_KEY        Steam Web API key (required)
	HTTP_PORT            HTTP port (default 8080)
	CRAWL_TARGET_SIZE    games to crawl per request (default 90)
	CRAWL_DEADLINE       crawl budget; 0 disables (default 2m)
	STORE_ENABLED        persist store metadata in BadgerDB
	LOG_LEVEL            trace, debug, info, warn, error
	LOG_FORMAT           json or console

A config.yaml in the working directory, or the file named by CONFIG_PATH,
is read before the environment.

# Graceful Shutdown

SIGINT or SIGTERM cancels the supervisor tree. The HTTP server stops
accepting connections and in-flight requests get SHUTDOWN_TIMEOUT
to finish.
*/
package main
