// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package config

import (
	"errors"
	"fmt"
	"net/url"
)

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validReviewFilters are the filter values accepted by the appreviews endpoint
var validReviewFilters = map[string]bool{
	"recent":  true,
	"updated": true,
	"all":     true,
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSteam(); err != nil {
		return err
	}
	if err := c.RecommendConfig().Validate(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSteam() error {
	if c.Steam.APIKey == "" {
		return errors.New("STEAM_API_KEY is required")
	}
	if err := validateHTTPURL(c.Steam.APIBaseURL, "STEAM_API_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.Steam.StoreBaseURL, "STEAM_STORE_BASE_URL"); err != nil {
		return err
	}
	if c.Steam.Timeout <= 0 {
		return fmt.Errorf("STEAM_TIMEOUT must be positive")
	}
	if c.Steam.RequestsPerSecond <= 0 {
		return fmt.Errorf("STEAM_REQUESTS_PER_SECOND must be positive")
	}
	if c.Steam.Burst < 1 {
		return fmt.Errorf("STEAM_BURST must be at least 1")
	}
	if c.Steam.MaxRetries < 0 {
		return fmt.Errorf("STEAM_MAX_RETRIES must not be negative")
	}
	if !validReviewFilters[c.Steam.ReviewFilter] {
		return fmt.Errorf("STEAM_REVIEW_FILTER must be one of: recent, updated, all")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1")
	}
	if c.Cache.TTL <= 0 || c.Cache.NegativeTTL <= 0 {
		return fmt.Errorf("CACHE_TTL and CACHE_NEGATIVE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if !c.Store.Enabled {
		return nil
	}
	if c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required when the store is enabled")
	}
	if c.Store.TTL <= 0 {
		return fmt.Errorf("STORE_TTL must be positive")
	}
	if c.Store.GCInterval <= 0 {
		return fmt.Errorf("STORE_GC_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks that rawURL is an http(s) base URL without a path
// or query.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	// Allow trailing slash but no other paths
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
