// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Stop reasons reported in BuildStats.
const (
	StopTargetReached     = "target_reached"
	StopFrontierExhausted = "frontier_exhausted"
	StopDeadline          = "deadline"
)

// BuildStats summarizes one crawl.
type BuildStats struct {
	Seeds            int           `json:"seeds"`
	Games            int           `json:"games"`
	Edges            int           `json:"edges"`
	Expanded         int           `json:"expanded"`
	ReviewersSampled int           `json:"reviewers_sampled"`
	LibrariesFetched int           `json:"libraries_fetched"`
	MetadataSkipped  int           `json:"metadata_skipped"`
	FetchErrors      int           `json:"fetch_errors"`
	Duration         time.Duration `json:"duration"`
	Incomplete       bool          `json:"incomplete"`
	Reason           string        `json:"reason"`
}

// BuildResult is a scored graph plus the crawl statistics.
type BuildResult struct {
	Graph *Graph
	Stats BuildStats
}

// Err returns an error wrapping ErrIncompleteNetwork when the crawl stopped
// short of its target, nil otherwise. The graph is usable either way.
func (r *BuildResult) Err() error {
	if !r.Stats.Incomplete {
		return nil
	}
	return fmt.Errorf("%w: %s with %d games", ErrIncompleteNetwork, r.Stats.Reason, r.Stats.Games)
}

// NetworkBuilder grows a recommendation graph breadth-first from seed games.
//
// Each expanded game samples its reviewers and each new reviewer's most
// played games. Libraries are fetched concurrently, then folded into the
// appearance tally and the graph by the calling goroutine alone.
type NetworkBuilder struct {
	fetcher Fetcher
	cfg     CrawlConfig
	logger  zerolog.Logger
}

// NewNetworkBuilder creates a builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewNetworkBuilder(fetcher Fetcher, cfg CrawlConfig, logger zerolog.Logger) (*NetworkBuilder, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crawl config: %w", err)
	}
	return &NetworkBuilder{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger.With().Str("stage", "crawl").Logger(),
	}, nil
}

// crawl holds the state of a single Build call.
type crawl struct {
	graph       *Graph
	frontier    []*Game
	reviewers   map[string]struct{}
	unavailable map[AppID]struct{}
	tally       *appearanceTally
	stats       BuildStats
}

// Build crawls from the seeds until the graph reaches the target size, the
// frontier empties, or the crawl deadline passes. The returned graph has
// likeability computed. Cancellation of ctx itself is returned as an error.
func (b *NetworkBuilder) Build(ctx context.Context, seeds []*Game) (*BuildResult, error) {
	start := time.Now()

	c := &crawl{
		graph:       NewGraph(),
		reviewers:   make(map[string]struct{}),
		unavailable: make(map[AppID]struct{}),
		tally:       newAppearanceTally(),
	}

	for _, seed := range seeds {
		if c.graph.Contains(seed.ID) {
			continue
		}
		if err := c.graph.AddGame(seed); err != nil {
			b.logger.Warn().Err(err).Int("app_id", int(seed.ID)).Msg("skipping invalid seed")
			continue
		}
		c.frontier = append(c.frontier, seed)
		c.stats.Seeds++
	}
	if c.stats.Seeds == 0 {
		return nil, ErrNoSeedGames
	}

	crawlCtx := ctx
	if b.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		crawlCtx, cancel = context.WithTimeout(ctx, b.cfg.Deadline)
		defer cancel()
	}

	c.stats.Reason = StopTargetReached
	for len(c.frontier) > 0 && c.graph.Len() < b.cfg.TargetSize {
		if crawlCtx.Err() != nil {
			break
		}
		current := c.frontier[0]
		c.frontier = c.frontier[1:]
		b.expand(crawlCtx, c, current)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("crawl canceled: %w", err)
	}

	switch {
	case crawlCtx.Err() != nil && c.graph.Len() < b.cfg.TargetSize:
		c.stats.Incomplete = true
		c.stats.Reason = StopDeadline
	case c.graph.Len() < b.cfg.TargetSize:
		c.stats.Incomplete = true
		c.stats.Reason = StopFrontierExhausted
	}

	c.graph.UpdateAllLikeability()

	c.stats.Games = c.graph.Len()
	c.stats.Edges = c.graph.EdgeCount()
	c.stats.Duration = time.Since(start)

	event := b.logger.Info()
	if c.stats.Incomplete {
		event = b.logger.Warn()
	}
	event.
		Int("games", c.stats.Games).
		Int("edges", c.stats.Edges).
		Int("expanded", c.stats.Expanded).
		Int("reviewers", c.stats.ReviewersSampled).
		Int("metadata_skipped", c.stats.MetadataSkipped).
		Int("fetch_errors", c.stats.FetchErrors).
		Str("reason", c.stats.Reason).
		Dur("duration", c.stats.Duration).
		Msg("recommendation network built")

	return &BuildResult{Graph: c.graph, Stats: c.stats}, nil
}

// expand processes one frontier game. Fetch failures are counted and
// logged; they never abort the crawl.
func (b *NetworkBuilder) expand(ctx context.Context, c *crawl, current *Game) {
	c.stats.Expanded++

	sampled, err := b.fetcher.ReviewerIDs(ctx, current.ID, b.cfg.ReviewerSample)
	if err != nil {
		if ctx.Err() == nil {
			c.stats.FetchErrors++
			b.logger.Warn().Err(err).Int("app_id", int(current.ID)).Msg("reviewer fetch failed")
		}
		return
	}

	fresh := make([]string, 0, len(sampled))
	for _, id := range sampled {
		if _, seen := c.reviewers[id]; seen {
			continue
		}
		c.reviewers[id] = struct{}{}
		fresh = append(fresh, id)
	}
	c.stats.ReviewersSampled += len(fresh)
	if len(fresh) == 0 {
		return
	}

	libraries := b.fetchLibraries(ctx, c, fresh)
	if ctx.Err() != nil {
		return
	}

	// Fold libraries into the tally in sample order and collect targets in
	// first-seen order.
	var targets []AppID
	seen := make(map[AppID]struct{})
	for _, lib := range libraries {
		c.tally.observe(lib)
		for _, id := range lib {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			targets = append(targets, id)
		}
	}

	var missing []AppID
	for _, id := range targets {
		if id == current.ID || c.graph.Contains(id) {
			continue
		}
		if _, skip := c.unavailable[id]; skip {
			continue
		}
		missing = append(missing, id)
	}

	resolved := b.fetchMetadata(ctx, c, missing)
	if ctx.Err() != nil {
		return
	}

	for _, id := range targets {
		if id == current.ID {
			continue
		}
		target, known := c.graph.Game(id)
		if !known {
			target = resolved[id]
			if target == nil {
				continue
			}
		}
		if err := c.graph.AddRecommendation(current, target, c.tally.weight(id)); err != nil {
			c.stats.FetchErrors++
			b.logger.Warn().Err(err).
				Int("source", int(current.ID)).
				Int("target", int(id)).
				Msg("dropping recommendation")
			continue
		}
		if !known {
			c.frontier = append(c.frontier, target)
		}
	}

	b.logger.Debug().
		Int("app_id", int(current.ID)).
		Int("targets", len(targets)).
		Int("graph_size", c.graph.Len()).
		Int("frontier", len(c.frontier)).
		Msg("expanded game")
}

// fetchLibraries reads each reviewer's most played games. The result is
// indexed like reviewers; failed fetches leave a nil entry.
func (b *NetworkBuilder) fetchLibraries(ctx context.Context, c *crawl, reviewers []string) [][]AppID {
	libraries := make([][]AppID, len(reviewers))
	errs := make([]error, len(reviewers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, reviewer := range reviewers {
		g.Go(func() error {
			libraries[i], errs[i] = b.fetcher.OwnedGames(gctx, reviewer, b.cfg.GamesPerReviewer)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			libraries[i] = nil
			if ctx.Err() == nil {
				c.stats.FetchErrors++
				b.logger.Warn().Err(err).Str("reviewer", reviewers[i]).Msg("library fetch failed")
			}
			continue
		}
		c.stats.LibrariesFetched++
	}
	return libraries
}

// fetchMetadata resolves unseen ids. Unavailable titles are remembered for
// the rest of the crawl so they are never fetched twice.
func (b *NetworkBuilder) fetchMetadata(ctx context.Context, c *crawl, ids []AppID) map[AppID]*Game {
	games := make([]*Game, len(ids))
	errs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, id := range ids {
		g.Go(func() error {
			games[i], errs[i] = b.fetcher.GameMetadata(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	resolved := make(map[AppID]*Game, len(ids))
	for i, id := range ids {
		err := errs[i]
		if err == nil {
			err = games[i].Validate()
		}
		switch {
		case err == nil:
			resolved[id] = games[i]
		case errors.Is(err, ErrMetadataUnavailable) || errors.Is(err, ErrInvalidGame):
			c.unavailable[id] = struct{}{}
			c.stats.MetadataSkipped++
			b.logger.Debug().Err(err).Int("app_id", int(id)).Msg("skipping game without metadata")
		case ctx.Err() == nil:
			c.stats.FetchErrors++
			b.logger.Warn().Err(err).Int("app_id", int(id)).Msg("metadata fetch failed")
		}
	}
	return resolved
}
