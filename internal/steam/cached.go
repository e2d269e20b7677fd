// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/steamwaiter/internal/cache"
	"github.com/tomtom215/steamwaiter/internal/metrics"
	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// Cache names used in metrics.
const (
	cacheGames     = "games"
	cacheReviewers = "reviewers"
)

// Cache layers used in metrics.
const (
	layerMemory = "memory"
	layerStore  = "store"
)

// GameStore is the persistent layer behind the in-memory metadata cache.
// Get returns an error for a miss; any error is treated as a miss.
type GameStore interface {
	Get(ctx context.Context, id recommend.AppID) (*recommend.Game, error)
	Put(ctx context.Context, g *recommend.Game) error
}

// CacheOptions configures a CachingFetcher.
type CacheOptions struct {
	Capacity    int
	TTL         time.Duration
	NegativeTTL time.Duration

	// LoadTimeout bounds a shared upstream fetch. It runs detached from the
	// caller that started it, so other waiters are not canceled with it.
	LoadTimeout time.Duration

	// Store is optional.
	Store GameStore
}

// metaEntry is a cached metadata lookup. A nil game marks a title whose
// store page could not be read.
type metaEntry struct {
	game *recommend.Game
}

type reviewerKey struct {
	app   recommend.AppID
	limit int
}

// CachingFetcher serves game metadata from memory, then the optional
// persistent store, then the wrapped Source. Reviewer samples are cached in
// memory only. Owned games and profile lookups always go upstream.
//
// Returned games are copies; the recommendation graph mutates the records it
// is handed.
type CachingFetcher struct {
	next        Source
	store       GameStore
	games       *cache.LRU[recommend.AppID, metaEntry]
	reviewers   *cache.LRU[reviewerKey, []string]
	negTTL      time.Duration
	loadTimeout time.Duration
	group       singleflight.Group
	logger      zerolog.Logger
}

var _ Source = (*CachingFetcher)(nil)

// NewCachingFetcher wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCachingFetcher(next Source, opts CacheOptions, logger zerolog.Logger) *CachingFetcher {
	if opts.NegativeTTL <= 0 {
		opts.NegativeTTL = time.Hour
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 2 * time.Minute
	}
	return &CachingFetcher{
		next:        next,
		store:       opts.Store,
		games:       cache.NewLRU[recommend.AppID, metaEntry](opts.Capacity, opts.TTL),
		reviewers:   cache.NewLRU[reviewerKey, []string](opts.Capacity, opts.TTL),
		negTTL:      opts.NegativeTTL,
		loadTimeout: opts.LoadTimeout,
		logger:      logger.With().Str("component", "steam_cache").Logger(),
	}
}

// GameMetadata returns a copy of the cached record, loading it on a miss.
// Concurrent misses for the same app share one upstream fetch; each caller
// stops waiting when its own context ends.
func (c *CachingFetcher) GameMetadata(ctx context.Context, appID recommend.AppID) (*recommend.Game, error) {
	if e, ok := c.games.Get(appID); ok {
		metrics.RecordCacheLookup(cacheGames, layerMemory)
		return e.result(appID)
	}

	if c.store != nil {
		if g, err := c.store.Get(ctx, appID); err == nil && g != nil {
			metrics.RecordCacheLookup(cacheGames, layerStore)
			c.games.Add(appID, metaEntry{game: g.Clone()})
			c.updateEntries()
			return g.Clone(), nil
		}
	}
	metrics.RecordCacheLookup(cacheGames, "")

	ch := c.group.DoChan(strconv.Itoa(int(appID)), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		return c.load(loadCtx, appID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(metaEntry).result(appID)
	}
}

// load fetches upstream and fills both layers. Unavailable titles are
// cached for the negative TTL; other errors are not cached.
func (c *CachingFetcher) load(ctx context.Context, appID recommend.AppID) (metaEntry, error) {
	g, err := c.next.GameMetadata(ctx, appID)
	if errors.Is(err, recommend.ErrMetadataUnavailable) {
		c.games.AddWithTTL(appID, metaEntry{}, c.negTTL)
		c.updateEntries()
		return metaEntry{}, nil
	}
	if err != nil {
		return metaEntry{}, err
	}

	entry := metaEntry{game: g.Clone()}
	c.games.Add(appID, entry)
	c.updateEntries()

	if c.store != nil {
		if err := c.store.Put(ctx, entry.game); err != nil {
			c.logger.Warn().Err(err).Int("app_id", int(appID)).Msg("Failed to persist game metadata")
		}
	}
	return entry, nil
}

func (e metaEntry) result(appID recommend.AppID) (*recommend.Game, error) {
	if e.game == nil {
		return nil, fmt.Errorf("%w: app %d (cached)", recommend.ErrMetadataUnavailable, appID)
	}
	return e.game.Clone(), nil
}

// ReviewerIDs returns a cached sample for (appID, limit) or fetches one.
func (c *CachingFetcher) ReviewerIDs(ctx context.Context, appID recommend.AppID, limit int) ([]string, error) {
	key := reviewerKey{app: appID, limit: limit}
	if ids, ok := c.reviewers.Get(key); ok {
		metrics.RecordCacheLookup(cacheReviewers, layerMemory)
		return append([]string(nil), ids...), nil
	}
	metrics.RecordCacheLookup(cacheReviewers, "")

	ids, err := c.next.ReviewerIDs(ctx, appID, limit)
	if err != nil {
		return nil, err
	}
	c.reviewers.Add(key, append([]string(nil), ids...))
	metrics.CacheEntries.WithLabelValues(cacheReviewers).Set(float64(c.reviewers.Len()))
	return ids, nil
}

// OwnedGames is not cached: a profile's library is read once per request.
func (c *CachingFetcher) OwnedGames(ctx context.Context, profileID string, limit int) ([]recommend.AppID, error) {
	return c.next.OwnedGames(ctx, profileID, limit)
}

// ResolveProfile is not cached.
func (c *CachingFetcher) ResolveProfile(ctx context.Context, input string) (string, error) {
	return c.next.ResolveProfile(ctx, input)
}

// Sweep drops expired in-memory entries and returns how many were removed.
func (c *CachingFetcher) Sweep() int {
	removed := c.games.CleanupExpired() + c.reviewers.CleanupExpired()
	c.updateEntries()
	metrics.CacheEntries.WithLabelValues(cacheReviewers).Set(float64(c.reviewers.Len()))
	return removed
}

// Stats returns the in-memory metadata cache counters.
func (c *CachingFetcher) Stats() cache.Stats {
	return c.games.Stats()
}

func (c *CachingFetcher) updateEntries() {
	metrics.CacheEntries.WithLabelValues(cacheGames).Set(float64(c.games.Len()))
}
