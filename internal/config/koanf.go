// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/steamwaiter/config.yaml",
	"/etc/steamwaiter/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  3 * time.Minute,
		},
		Steam: SteamConfig{
			APIKey:            "", // required
			APIBaseURL:        "https://api.steampowered.com",
			StoreBaseURL:      "https://store.steampowered.com",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 4,
			Burst:             4,
			MaxRetries:        5,
			Language:          "english",
			ReviewFilter:      "recent",
			UserAgent:         "steamwaiter/1.0 (+https://github.com/tomtom215/steamwaiter)",
		},
		Crawl: CrawlConfig{
			TargetSize:       90,
			ReviewerSample:   5,
			GamesPerReviewer: 5,
			SeedGames:        5,
			Deadline:         2 * time.Minute,
			Workers:          4,
		},
		Tree: TreeConfig{
			PriceDecay:     0.05,
			PriceThreshold: 0.5,
			YearWindow:     7,
		},
		Cache: CacheConfig{
			Capacity:    5000,
			TTL:         24 * time.Hour,
			NegativeTTL: time.Hour,
		},
		Store: StoreConfig{
			Enabled:    true,
			Path:       "/data/steamwaiter",
			TTL:        7 * 24 * time.Hour,
			GCInterval: 10 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:     30,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from three layers: struct defaults, an
// optional YAML file, then environment variables (highest priority).
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML lists arrive as slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"request_timeout":  "server.request_timeout",

	// Steam
	"steam_api_key":             "steam.api_key",
	"steam_api_base_url":        "steam.api_base_url",
	"steam_store_base_url":      "steam.store_base_url",
	"steam_timeout":             "steam.timeout",
	"steam_requests_per_second": "steam.requests_per_second",
	"steam_burst":               "steam.burst",
	"steam_max_retries":         "steam.max_retries",
	"steam_language":            "steam.language",
	"steam_review_filter":       "steam.review_filter",
	"steam_user_agent":          "steam.user_agent",

	// Crawl
	"crawl_target_size":        "crawl.target_size",
	"crawl_reviewer_sample":    "crawl.reviewer_sample",
	"crawl_games_per_reviewer": "crawl.games_per_reviewer",
	"crawl_seed_games":         "crawl.seed_games",
	"crawl_deadline":           "crawl.deadline",
	"crawl_workers":            "crawl.workers",

	// Preference tree
	"tree_price_decay":     "tree.price_decay",
	"tree_price_threshold": "tree.price_threshold",
	"tree_year_window":     "tree.year_window",

	// Cache and store
	"cache_capacity":     "cache.capacity",
	"cache_ttl":          "cache.ttl",
	"cache_negative_ttl": "cache.negative_ttl",
	"store_enabled":      "store.enabled",
	"store_path":         "store.path",
	"store_ttl":          "store.ttl",
	"store_gc_interval":  "store.gc_interval",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - STEAM_API_KEY -> steam.api_key
//   - CRAWL_TARGET_SIZE -> crawl.target_size
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// cannot pollute the config.
	return ""
}
