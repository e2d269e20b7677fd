// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Crawl bounds the recommendation network construction.
	Crawl CrawlConfig `json:"crawl"`

	// Tree tunes the preference filters.
	Tree TreeConfig `json:"tree"`

	// SeedGames is how many of the player's most-played games start the
	// crawl frontier.
	SeedGames int `json:"seed_games"`
}

// CrawlConfig bounds a NetworkBuilder run.
type CrawlConfig struct {
	// TargetSize stops expansion once the graph holds this many games.
	TargetSize int `json:"target_size"`

	// ReviewerSample is how many reviewers are sampled per frontier game.
	ReviewerSample int `json:"reviewer_sample"`

	// GamesPerReviewer is how many of each reviewer's most-played games
	// are read.
	GamesPerReviewer int `json:"games_per_reviewer"`

	// Workers caps concurrent library fetches per frontier game.
	Workers int `json:"workers"`

	// Deadline bounds the whole crawl. Zero disables it.
	Deadline time.Duration `json:"deadline"`
}

// TreeConfig holds the preference filter tuning constants.
type TreeConfig struct {
	// PriceDecay is k in exp(-k * |gamePrice - userPrice|).
	PriceDecay float64 `json:"price_decay"`

	// PriceThreshold is the minimum similarity for the price filter to pass.
	PriceThreshold float64 `json:"price_threshold"`

	// YearWindow is the largest release year distance that still passes.
	YearWindow int `json:"year_window"`
}

// DefaultTreeConfig returns the stock filter constants.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		PriceDecay:     0.05,
		PriceThreshold: 0.5,
		YearWindow:     7,
	}
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			TargetSize:       90,
			ReviewerSample:   5,
			GamesPerReviewer: 5,
			Workers:          4,
			Deadline:         2 * time.Minute,
		},
		Tree:      DefaultTreeConfig(),
		SeedGames: 5,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Crawl.Validate(); err != nil {
		return err
	}
	if err := c.Tree.Validate(); err != nil {
		return err
	}
	if c.SeedGames < 1 {
		return fmt.Errorf("seed_games must be positive, got %d", c.SeedGames)
	}
	return nil
}

// Validate checks the crawl bounds.
func (c CrawlConfig) Validate() error {
	if c.TargetSize < 1 {
		return fmt.Errorf("crawl.target_size must be positive, got %d", c.TargetSize)
	}
	if c.ReviewerSample < 1 {
		return fmt.Errorf("crawl.reviewer_sample must be positive, got %d", c.ReviewerSample)
	}
	if c.GamesPerReviewer < 1 {
		return fmt.Errorf("crawl.games_per_reviewer must be positive, got %d", c.GamesPerReviewer)
	}
	if c.Workers < 1 {
		return fmt.Errorf("crawl.workers must be positive, got %d", c.Workers)
	}
	if c.Deadline < 0 {
		return fmt.Errorf("crawl.deadline must be non-negative, got %v", c.Deadline)
	}
	return nil
}

// Validate checks the filter constants.
func (c TreeConfig) Validate() error {
	if c.PriceDecay <= 0 {
		return fmt.Errorf("tree.price_decay must be positive, got %f", c.PriceDecay)
	}
	if c.PriceThreshold <= 0 || c.PriceThreshold > 1 {
		return fmt.Errorf("tree.price_threshold must be in (0, 1], got %f", c.PriceThreshold)
	}
	if c.YearWindow < 0 {
		return fmt.Errorf("tree.year_window must be non-negative, got %d", c.YearWindow)
	}
	return nil
}
