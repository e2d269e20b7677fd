// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

// Package recommend builds a personalized game short-list from a player's
// Steam library.
//
// # Architecture
//
// A request flows through four stages:
//
//   - NetworkBuilder: breadth-first crawl from the player's most-played games.
//     Each frontier game samples its reviewers, then samples each reviewer's
//     library, and links the game to everything those libraries contain.
//   - Graph: directed, weighted recommendation edges between games plus the
//     likeability score derived from them.
//   - PreferenceTree: a fixed five-question binary tree that splits the
//     candidate games into 32 leaves ordered from "failed every filter" (0)
//     to "passed every filter" (31).
//   - ResultRanker: merges leaf order with likeability into a top-5 list.
//
// Engine wires the stages together and talks to the outside world only
// through the Fetcher interface, so this package has no dependency on the
// Steam client, the HTTP layer or the metadata store.
//
// # Likeability
//
//	likeability = tributesWeight + tributeScore + rating
//
// tributeScore is the game's in-degree divided by the largest in-degree in
// the graph. tributesWeight is the mean weight of the game's incoming edges.
// Both are zero for a game nobody recommends. The sum is not clamped.
//
// # Edge Weights
//
// Weights come from a single running tally of game appearances across every
// reviewer library sampled so far, so a weight written early in the crawl is
// relative to a smaller total than one written later. Reviewer libraries are
// fetched concurrently but always applied to the tally in sample order by
// the crawl goroutine.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), fetcher, logger)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    ProfileID:   "76561197960287930",
//	    Preferences: prefs,
//	})
//
// # Thread Safety
//
// Engine, NetworkBuilder, PreferenceTree and ResultRanker are safe for
// concurrent use. Each Build call owns its Graph; Graph methods lock
// internally.
package recommend
