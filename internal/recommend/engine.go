// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages. Steam
// access comes in through Fetcher and observability through Recorder.

// Recorder receives request and crawl outcomes, typically for metrics.
type Recorder interface {
	ObserveCrawl(stats BuildStats)
	ObserveRecommendation(outcome string, duration time.Duration)
}

// Recommendation outcomes passed to Recorder.
const (
	OutcomeSuccess      = "success"
	OutcomeInsufficient = "insufficient_candidates"
	OutcomeNoSeeds      = "no_seeds"
	OutcomeInvalid      = "invalid_request"
	OutcomeError        = "error"
)

type nopRecorder struct{}

func (nopRecorder) ObserveCrawl(BuildStats) {}
func (nopRecorder) ObserveRecommendation(string, time.Duration) {}

// Engine runs the full pipeline: seed resolution, crawl, preference
// partitioning and ranking. It is safe for concurrent use.
type Engine struct {
	config  *Config
	fetcher Fetcher
	builder *NetworkBuilder
	ranker  *ResultRanker
	logger  zerolog.Logger

	recMu    sync.RWMutex
	recorder Recorder

	requestCount    atomic.Int64
	errorCount      atomic.Int64
	incompleteCount atomic.Int64
}

// EngineStats is a snapshot of the engine counters.
type EngineStats struct {
	Requests           int64 `json:"requests"`
	Errors             int64 `json:"errors"`
	IncompleteNetworks int64 `json:"incomplete_networks"`
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, fetcher Fetcher, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger = logger.With().Str("component", "recommend").Logger()

	builder, err := NewNetworkBuilder(fetcher, cfg.Crawl, logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:   cfg,
		fetcher:  fetcher,
		builder:  builder,
		ranker:   NewResultRanker(),
		logger:   logger,
		recorder: nopRecorder{},
	}, nil
}

// SetRecorder installs an outcome recorder. A nil recorder disables recording.
func (e *Engine) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	e.recMu.Lock()
	e.recorder = r
	e.recMu.Unlock()
}

func (e *Engine) getRecorder() Recorder {
	e.recMu.RLock()
	defer e.recMu.RUnlock()
	return e.recorder
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Requests:           e.requestCount.Load(),
		Errors:             e.errorCount.Load(),
		IncompleteNetworks: e.incompleteCount.Load(),
	}
}

// Recommend produces a top-5 list for one request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	logger := e.logger.With().Str("request_id", req.RequestID).Logger()

	resp, err := e.recommend(ctx, req, logger, start)

	outcome := OutcomeSuccess
	if err != nil {
		e.errorCount.Add(1)
		outcome = outcomeFor(err)
		logger.Warn().Err(err).Str("outcome", outcome).Msg("recommendation failed")
	}
	e.getRecorder().ObserveRecommendation(outcome, time.Since(start))
	return resp, err
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) recommend(ctx context.Context, req Request, logger zerolog.Logger, start time.Time) (*Response, error) {
	tree, err := NewPreferenceTree(e.config.Tree, req.Preferences)
	if err != nil {
		return nil, err
	}

	seedIDs, exclude, err := e.resolveSeeds(ctx, req)
	if err != nil {
		return nil, err
	}

	seeds, err := e.fetchSeeds(ctx, seedIDs, logger)
	if err != nil {
		return nil, err
	}

	result, err := e.builder.Build(ctx, seeds)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	e.getRecorder().ObserveCrawl(result.Stats)
	if buildErr := result.Err(); buildErr != nil {
		e.incompleteCount.Add(1)
		logger.Warn().Err(buildErr).Msg("continuing with a partial network")
	}

	candidates := candidateGames(result.Graph, exclude)

	partition := tree.Partition(candidates, req.OnProgress)

	ranked, err := e.ranker.Rank(partition.Leaves)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		RequestID: req.RequestID,
		Results:   ranked,
		Progress:  partition.Progress,
		Network: NetworkSummary{
			Games:       result.Stats.Games,
			Edges:       result.Stats.Edges,
			MaxTributes: result.Graph.MaxTributes(),
			Candidates:  len(candidates),
			Excluded:    result.Stats.Games - len(candidates),
			Incomplete:  result.Stats.Incomplete,
			StopReason:  result.Stats.Reason,
		},
		Metadata: Metadata{
			GeneratedAt: time.Now().UTC(),
			LatencyMS:   time.Since(start).Milliseconds(),
			CrawlMS:     result.Stats.Duration.Milliseconds(),
		},
	}

	logger.Info().
		Int("candidates", len(candidates)).
		Int("graph_size", result.Stats.Games).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// resolveSeeds returns the crawl seeds and the ids excluded from results.
// With a profile every owned game is excluded; with an explicit list the
// seeds themselves are.
func (e *Engine) resolveSeeds(ctx context.Context, req Request) ([]AppID, map[AppID]struct{}, error) {
	var owned []AppID
	switch {
	case req.ProfileID != "":
		ids, err := e.fetcher.OwnedGames(ctx, req.ProfileID, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch owned games for %s: %w", req.ProfileID, err)
		}
		owned = ids
	case len(req.SeedGames) > 0:
		owned = req.SeedGames
	default:
		return nil, nil, fmt.Errorf("%w: profile or seed games required", ErrNoSeedGames)
	}

	exclude := make(map[AppID]struct{}, len(owned))
	seeds := make([]AppID, 0, e.config.SeedGames)
	for _, id := range owned {
		if _, dup := exclude[id]; dup {
			continue
		}
		exclude[id] = struct{}{}
		if len(seeds) < e.config.SeedGames {
			seeds = append(seeds, id)
		}
	}
	if len(seeds) == 0 {
		return nil, nil, fmt.Errorf("%w: library is empty or private", ErrNoSeedGames)
	}
	return seeds, exclude, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fetchSeeds(ctx context.Context, ids []AppID, logger zerolog.Logger) ([]*Game, error) {
	seeds := make([]*Game, 0, len(ids))
	var upstreamErr error
	for _, id := range ids {
		game, err := e.fetcher.GameMetadata(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, ErrMetadataUnavailable) {
				upstreamErr = err
			}
			logger.Debug().Err(err).Int("app_id", int(id)).Msg("skipping seed without metadata")
			continue
		}
		seeds = append(seeds, game)
	}
	if len(seeds) == 0 {
		if upstreamErr != nil {
			return nil, fmt.Errorf("fetch seed metadata: %w", upstreamErr)
		}
		return nil, fmt.Errorf("%w: none of %d seed games have metadata", ErrNoSeedGames, len(ids))
	}
	return seeds, nil
}

// candidateGames returns the graph's games minus the excluded ids, ordered
// by app id.
func candidateGames(g *Graph, exclude map[AppID]struct{}) []*Game {
	games := g.Games()
	out := make([]*Game, 0, len(games))
	for _, game := range games {
		if _, skip := exclude[game.ID]; skip {
			continue
		}
		out = append(out, game)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientCandidates):
		return OutcomeInsufficient
	case errors.Is(err, ErrNoSeedGames):
		return OutcomeNoSeeds
	case errors.Is(err, ErrInvalidPreferences):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
