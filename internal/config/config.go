// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package config

import (
	"time"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Steam    SteamConfig    `koanf:"steam"`
	Crawl    CrawlConfig    `koanf:"crawl"`
	Tree     TreeConfig     `koanf:"tree"`
	Cache    CacheConfig    `koanf:"cache"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`          // read/idle timeout for normal routes
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // graceful shutdown budget
	RequestTimeout  time.Duration `koanf:"request_timeout"`  // per recommendation request, covers the crawl
}

// SteamConfig holds Steam Web API and storefront settings.
type SteamConfig struct {
	APIKey            string        `koanf:"api_key"`
	APIBaseURL        string        `koanf:"api_base_url"`
	StoreBaseURL      string        `koanf:"store_base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"` // retries after HTTP 429
	Language          string        `koanf:"language"`
	ReviewFilter      string        `koanf:"review_filter"` // recent, updated, all
	UserAgent         string        `koanf:"user_agent"`
}

// CrawlConfig holds recommendation network crawl settings.
type CrawlConfig struct {
	TargetSize       int           `koanf:"target_size"`
	ReviewerSample   int           `koanf:"reviewer_sample"`
	GamesPerReviewer int           `koanf:"games_per_reviewer"`
	SeedGames        int           `koanf:"seed_games"`
	Deadline         time.Duration `koanf:"deadline"` // 0 disables the crawl deadline
	Workers          int           `koanf:"workers"`
}

// TreeConfig holds preference tree thresholds.
type TreeConfig struct {
	PriceDecay     float64 `koanf:"price_decay"`
	PriceThreshold float64 `koanf:"price_threshold"`
	YearWindow     int     `koanf:"year_window"`
}

// CacheConfig holds in-process cache settings.
type CacheConfig struct {
	Capacity    int           `koanf:"capacity"`
	TTL         time.Duration `koanf:"ttl"`
	NegativeTTL time.Duration `koanf:"negative_ttl"` // lifetime of "metadata unavailable" markers
}

// StoreConfig holds the BadgerDB metadata store settings.
type StoreConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Path       string        `koanf:"path"`
	TTL        time.Duration `koanf:"ttl"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// SecurityConfig holds HTTP edge protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig converts the crawl and tree sections into engine settings.
func (c *Config) RecommendConfig() *recommend.Config {
	return &recommend.Config{
		Crawl: recommend.CrawlConfig{
			TargetSize:       c.Crawl.TargetSize,
			ReviewerSample:   c.Crawl.ReviewerSample,
			GamesPerReviewer: c.Crawl.GamesPerReviewer,
			Workers:          c.Crawl.Workers,
			Deadline:         c.Crawl.Deadline,
		},
		Tree: recommend.TreeConfig{
			PriceDecay:     c.Tree.PriceDecay,
			PriceThreshold: c.Tree.PriceThreshold,
			YearWindow:     c.Tree.YearWindow,
		},
		SeedGames: c.Crawl.SeedGames,
	}
}
