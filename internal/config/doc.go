// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

/*
Package config provides layered configuration loading for Steam Waiter.

# Configuration Sources

Load applies three layers with koanf, later layers winning:
  - Struct defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/steamwaiter/config.yaml
  - Environment variables with an explicit mapping (unmapped names are ignored)

# Environment Variables

Steam:
  - STEAM_API_KEY: Steam Web API key (required)
  - STEAM_API_BASE_URL: default https://api.steampowered.com
  - STEAM_STORE_BASE_URL: default https://store.steampowered.com
  - STEAM_REQUESTS_PER_SECOND, STEAM_BURST: outbound pacing (default 4, 4)
  - STEAM_MAX_RETRIES: retries after HTTP 429 (default 5)

Crawl:
  - CRAWL_TARGET_SIZE: network size that stops expansion (default 90)
  - CRAWL_REVIEWER_SAMPLE, CRAWL_GAMES_PER_REVIEWER: sampling (default 5, 5)
  - CRAWL_SEED_GAMES: most-played games used as seeds (default 5)
  - CRAWL_DEADLINE: crawl time budget, 0 disables (default 2m)

Preference tree:
  - TREE_PRICE_DECAY, TREE_PRICE_THRESHOLD, TREE_YEAR_WINDOW (default 0.05, 0.5, 7)

Server and security:
  - HTTP_HOST, HTTP_PORT (default 0.0.0.0:8080)
  - REQUEST_TIMEOUT: per recommendation request (default 3m)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated list

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	engine, err := recommend.NewEngine(cfg.RecommendConfig(), fetcher, logger)
*/
package config
