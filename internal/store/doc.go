// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

// Package store persists game metadata in BadgerDB.
//
// Store pages are the slowest collaborator call in a crawl, and a game's
// name, tags, price and review summary change rarely. GameStore keeps each
// fetched record for a configurable TTL so later crawls, and the process
// after a restart, read it locally. Records are JSON encoded under the key
// "game:<appid>" with a Badger entry TTL.
//
// Value log space is reclaimed by RunGC, driven periodically by the
// supervisor's store GC service.
package store
