// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	t.Run("crawl defaults", func(t *testing.T) {
		if cfg.Crawl.TargetSize != 90 {
			t.Errorf("Crawl.TargetSize = %d, want 90", cfg.Crawl.TargetSize)
		}
		if cfg.Crawl.ReviewerSample != 5 || cfg.Crawl.GamesPerReviewer != 5 {
			t.Errorf("Crawl samples = %d/%d, want 5/5", cfg.Crawl.ReviewerSample, cfg.Crawl.GamesPerReviewer)
		}
		if cfg.Crawl.Deadline != 2*time.Minute {
			t.Errorf("Crawl.Deadline = %v, want 2m", cfg.Crawl.Deadline)
		}
	})

	t.Run("tree defaults", func(t *testing.T) {
		if cfg.Tree.PriceDecay != 0.05 {
			t.Errorf("Tree.PriceDecay = %f, want 0.05", cfg.Tree.PriceDecay)
		}
		if cfg.Tree.PriceThreshold != 0.5 {
			t.Errorf("Tree.PriceThreshold = %f, want 0.5", cfg.Tree.PriceThreshold)
		}
		if cfg.Tree.YearWindow != 7 {
			t.Errorf("Tree.YearWindow = %d, want 7", cfg.Tree.YearWindow)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"deadline disabled", func(c *Config) { c.Crawl.Deadline = 0 }, false},
		{"zero target", func(c *Config) { c.Crawl.TargetSize = 0 }, true},
		{"zero reviewers", func(c *Config) { c.Crawl.ReviewerSample = 0 }, true},
		{"zero games per reviewer", func(c *Config) { c.Crawl.GamesPerReviewer = 0 }, true},
		{"zero workers", func(c *Config) { c.Crawl.Workers = 0 }, true},
		{"negative deadline", func(c *Config) { c.Crawl.Deadline = -time.Second }, true},
		{"zero decay", func(c *Config) { c.Tree.PriceDecay = 0 }, true},
		{"threshold above one", func(c *Config) { c.Tree.PriceThreshold = 1.5 }, true},
		{"zero threshold", func(c *Config) { c.Tree.PriceThreshold = 0 }, true},
		{"negative window", func(c *Config) { c.Tree.YearWindow = -1 }, true},
		{"zero seeds", func(c *Config) { c.SeedGames = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
