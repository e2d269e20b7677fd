// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

/*
Package steam reads Steam for the recommendation engine.

# Overview

Client implements recommend.Fetcher against two upstreams:

  - Steam Web API: IPlayerService/GetOwnedGames and ISteamUser/ResolveVanityURL
  - Storefront: appreviews JSON and the HTML store page of each app

Store pages are parsed with golang.org/x/net/html. The app name, user tags,
price, release date and review summary are read from their CSS classes;
online and multiplayer flags come from tags and the description snippet.

# Layering

The server composes three Sources:

	client, _ := steam.NewClient(cfg, logger)
	guarded := steam.NewBreakerFetcher(client, logger)
	source := steam.NewCachingFetcher(guarded, steam.CacheOptions{
	    Capacity: 5000,
	    TTL:      24 * time.Hour,
	    Store:    gameStore,
	}, logger)

CachingFetcher answers repeated metadata lookups from memory or the
persistent store without touching the breaker. BreakerFetcher stops calling
Steam once an endpoint family keeps failing.

# Rate Limiting

Every request waits on one token bucket (golang.org/x/time/rate). HTTP 429
responses are retried with exponential backoff, or after Retry-After when
Steam sends it.

# Errors

  - recommend.ErrMetadataUnavailable: store page missing, delisted or unparsable
  - recommend.ErrNotFound: unknown vanity name or app
  - ErrRateLimited: 429 after every retry
  - ErrUnavailable: circuit breaker open
  - *StatusError: any other unexpected HTTP status
*/
package steam
