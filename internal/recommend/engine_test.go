// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockRecorder captures Recorder calls.
type mockRecorder struct {
	mu       sync.Mutex
	crawls   []BuildStats
	outcomes []string
}

func (r *mockRecorder) ObserveCrawl(stats BuildStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.crawls = append(r.crawls, stats)
}

func (r *mockRecorder) ObserveRecommendation(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

// wideNetwork returns a fetcher where profile "player" owns games 1 and 2
// and the reviewers of game 1 own 40 other games between them.
func wideNetwork() *mockFetcher {
	m := newMockFetcher()
	m.owned["player"] = []AppID{1, 2}
	for r := 0; r < 4; r++ {
		id := fmt.Sprintf("rev%d", r)
		m.reviewers[1] = append(m.reviewers[1], id)
		lib := []AppID{2}
		for i := 0; i < 10; i++ {
			lib = append(lib, AppID(100+r*10+i))
		}
		m.owned[id] = lib
	}
	return m
}

func testEngineConfig() *Config {
	cfg := DefaultConfig()
	cfg.Crawl.TargetSize = 30
	cfg.Crawl.GamesPerReviewer = 20
	cfg.Crawl.Deadline = 0
	return cfg
}

func newTestEngine(t *testing.T, f Fetcher) (*Engine, *mockRecorder) {
	t.Helper()
	e, err := NewEngine(testEngineConfig(), f, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	rec := &mockRecorder{}
	e.SetRecorder(rec)
	return e, rec
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()
		e, err := NewEngine(nil, newMockFetcher(), zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.Config().Crawl.TargetSize != 90 {
			t.Errorf("TargetSize = %d, want 90", e.Config().Crawl.TargetSize)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.SeedGames = 0
		if _, err := NewEngine(cfg, newMockFetcher(), zerolog.Nop()); err == nil {
			t.Error("expected error for zero seed games")
		}
	})

	t.Run("nil fetcher", func(t *testing.T) {
		t.Parallel()
		if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
			t.Error("expected error for nil fetcher")
		}
	})
}

func TestEngine_RecommendForProfile(t *testing.T) {
	t.Parallel()

	e, rec := newTestEngine(t, wideNetwork())

	var progress []LevelProgress
	resp, err := e.Recommend(context.Background(), Request{
		ProfileID:   "player",
		Preferences: fullPreferences(),
		OnProgress:  func(p LevelProgress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if resp.RequestID == "" {
		t.Error("RequestID should be generated")
	}
	if len(resp.Results) != PoolSize {
		t.Fatalf("Results = %d, want %d", len(resp.Results), PoolSize)
	}
	for _, r := range resp.Results {
		if r.Game.ID == 1 || r.Game.ID == 2 {
			t.Errorf("owned game %d recommended", r.Game.ID)
		}
	}
	if len(progress) != TreeDepth || len(resp.Progress) != TreeDepth {
		t.Errorf("progress = %d callbacks, %d recorded; want %d", len(progress), len(resp.Progress), TreeDepth)
	}
	if resp.Network.Excluded != 2 {
		t.Errorf("Network.Excluded = %d, want 2", resp.Network.Excluded)
	}
	if resp.Network.Candidates != resp.Network.Games-2 {
		t.Errorf("Network.Candidates = %d, want %d", resp.Network.Candidates, resp.Network.Games-2)
	}

	if len(rec.crawls) != 1 || len(rec.outcomes) != 1 || rec.outcomes[0] != OutcomeSuccess {
		t.Errorf("recorder = %d crawls, outcomes %v", len(rec.crawls), rec.outcomes)
	}
	if s := e.Stats(); s.Requests != 1 || s.Errors != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestEngine_RecommendForSeedList(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, wideNetwork())
	resp, err := e.Recommend(context.Background(), Request{
		RequestID:   "req-1",
		SeedGames:   []AppID{1},
		Preferences: fullPreferences(),
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", resp.RequestID)
	}
	for _, r := range resp.Results {
		if r.Game.ID == 1 {
			t.Error("seed game recommended")
		}
	}
	if resp.Network.Excluded != 1 {
		t.Errorf("Network.Excluded = %d, want 1", resp.Network.Excluded)
	}
}

func TestEngine_RecommendErrors(t *testing.T) {
	t.Parallel()

	private := newMockFetcher()
	unresolved := newMockFetcher()
	unresolved.owned["player"] = []AppID{1}
	unresolved.unavailable[1] = true

	tests := []struct {
		name    string
		fetcher *mockFetcher
		req     Request
		want    error
		outcome string
	}{
		{
			name:    "undersized network",
			fetcher: smallNetwork(),
			req:     Request{SeedGames: []AppID{1}, Preferences: fullPreferences()},
			want:    ErrInsufficientCandidates,
			outcome: OutcomeInsufficient,
		},
		{
			name:    "private profile",
			fetcher: private,
			req:     Request{ProfileID: "player", Preferences: fullPreferences()},
			want:    ErrNoSeedGames,
			outcome: OutcomeNoSeeds,
		},
		{
			name:    "seed without metadata",
			fetcher: unresolved,
			req:     Request{ProfileID: "player", Preferences: fullPreferences()},
			want:    ErrNoSeedGames,
			outcome: OutcomeNoSeeds,
		},
		{
			name:    "no input",
			fetcher: wideNetwork(),
			req:     Request{Preferences: fullPreferences()},
			want:    ErrNoSeedGames,
			outcome: OutcomeNoSeeds,
		},
		{
			name:    "invalid preferences",
			fetcher: wideNetwork(),
			req:     Request{ProfileID: "player", Preferences: fullPreferences()[:2]},
			want:    ErrInvalidPreferences,
			outcome: OutcomeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, rec := newTestEngine(t, tt.fetcher)
			_, err := e.Recommend(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Recommend() error = %v, want %v", err, tt.want)
			}
			if len(rec.outcomes) != 1 || rec.outcomes[0] != tt.outcome {
				t.Errorf("outcomes = %v, want [%s]", rec.outcomes, tt.outcome)
			}
			if e.Stats().Errors != 1 {
				t.Errorf("Stats().Errors = %d, want 1", e.Stats().Errors)
			}
		})
	}
}

func TestEngine_IncompleteNetworkCounted(t *testing.T) {
	t.Parallel()

	// Only game 1 has reviewers, so the crawl tops out at 42 games.
	cfg := testEngineConfig()
	cfg.Crawl.TargetSize = 100
	e, err := NewEngine(cfg, wideNetwork(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	resp, err := e.Recommend(context.Background(), Request{
		ProfileID:   "player",
		Preferences: fullPreferences(),
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !resp.Network.Incomplete || resp.Network.StopReason != StopFrontierExhausted {
		t.Errorf("Network = %+v, want incomplete frontier_exhausted", resp.Network)
	}
	if resp.Network.Games != 42 {
		t.Errorf("Network.Games = %d, want 42", resp.Network.Games)
	}
	if e.Stats().IncompleteNetworks != 1 {
		t.Errorf("IncompleteNetworks = %d, want 1", e.Stats().IncompleteNetworks)
	}
}
