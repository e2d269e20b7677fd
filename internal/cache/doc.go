// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

/*
Package cache provides a generic, thread-safe LRU cache with TTL support.

# Overview

LRU keeps at most a fixed number of entries. When full, the least recently
used entry is evicted. Every entry carries its own expiry so callers can keep
short-lived negative results next to long-lived positive ones.

# Use Cases

  - Store page metadata for games (24 hour TTL)
  - "Metadata unavailable" markers for delisted titles (shorter TTL)
  - Reviewer samples per game

# Usage Example

	games := cache.NewLRU[recommend.AppID, *recommend.Game](5000, 24*time.Hour)
	games.Add(620, portal2)

	if g, ok := games.Get(620); ok {
	    // use g
	}

	stats := games.Stats()
	fmt.Printf("hit rate %.2f\n", stats.HitRate())

# Expiration

Expired entries are removed lazily on Get, or in bulk by CleanupExpired.
Len counts expired entries that have not been swept yet.

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
