// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import "errors"

// Sentinel errors. Callers match with errors.Is; returned errors wrap these
// with the offending ids.
var (
	// ErrNotFound is returned when an operation references a game or profile
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidEdge is returned when an edge update targets a
	// recommendation that was never added, or carries an unusable weight.
	ErrInvalidEdge = errors.New("invalid recommendation edge")

	// ErrInvalidGame is returned when a game record breaks a data invariant.
	ErrInvalidGame = errors.New("invalid game record")

	// ErrIncompleteNetwork reports that the crawl stopped before reaching
	// its target size. The partial graph is still usable.
	ErrIncompleteNetwork = errors.New("incomplete recommendation network")

	// ErrMetadataUnavailable is returned by a Fetcher when a game exists in
	// someone's library but its store page cannot be read (delisted,
	// region-locked, age-gated without bypass).
	ErrMetadataUnavailable = errors.New("game metadata unavailable")

	// ErrInsufficientCandidates is returned when no preference leaf holds
	// enough games to seed the result pool.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrNoSeedGames is returned when none of the seed games resolve.
	ErrNoSeedGames = errors.New("no seed games resolved")

	// ErrInvalidPreferences is returned for a preference list that is not
	// exactly one answer per question kind.
	ErrInvalidPreferences = errors.New("invalid preferences")
)
