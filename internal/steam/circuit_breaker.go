// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/steamwaiter/internal/metrics"
	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// Breaker names, one per Steam endpoint family.
const (
	BreakerAPI   = "steam-api"
	BreakerStore = "steam-store"
)

// ErrUnavailable wraps breaker rejections so the HTTP layer can report an
// upstream outage without importing gobreaker.
var ErrUnavailable = errors.New("steam temporarily unavailable")

// errCallerDone marks a failure caused by the caller's context ending, such
// as a crawl deadline, rather than by Steam.
var errCallerDone = errors.New("caller context done")

// BreakerFetcher wraps a Source with one circuit breaker per endpoint
// family. Web API calls (owned games, vanity lookup) share steam-api;
// storefront calls (reviews, store pages) share steam-store.
//
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
// Missing games, unknown profiles and calls cut off by the caller's own
// cancellation or deadline are outcomes, not failures, and do not move the
// breaker.
type BreakerFetcher struct {
	next  Source
	api   *gobreaker.CircuitBreaker[any]
	store *gobreaker.CircuitBreaker[any]
}

var _ Source = (*BreakerFetcher)(nil)

// NewBreakerFetcher wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerFetcher(next Source, logger zerolog.Logger) *BreakerFetcher {
	logger = logger.With().Str("component", "circuit_breaker").Logger()
	return &BreakerFetcher{
		next:  next,
		api:   newBreaker(BreakerAPI, logger),
		store: newBreaker(BreakerStore, logger),
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBreaker(name string, logger zerolog.Logger) *gobreaker.CircuitBreaker[any] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logger.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: isBreakerSuccess,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

// isBreakerSuccess decides which errors count against the breaker.
func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, recommend.ErrMetadataUnavailable) ||
		errors.Is(err, recommend.ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, errCallerDone)
}

// execute runs fn through cb and records the outcome.
func execute[T any](ctx context.Context, cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T
	name := cb.Name()

	result, err := cb.Execute(func() (any, error) {
		v, err := fn()
		if err != nil && ctx.Err() != nil {
			return v, fmt.Errorf("%w: %w", errCallerDone, err)
		}
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
			return zero, fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
		}
		if isBreakerSuccess(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(cb.Counts().ConsecutiveFailures))
		}
		return zero, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	typed, ok := result.(T)
	if !ok && result != nil {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// State returns the named breaker's state ("closed", "half-open", "open").
func (b *BreakerFetcher) State(name string) string {
	switch name {
	case BreakerAPI:
		return stateToString(b.api.State())
	case BreakerStore:
		return stateToString(b.store.State())
	default:
		return "unknown"
	}
}

// OwnedGames calls through the steam-api breaker.
func (b *BreakerFetcher) OwnedGames(ctx context.Context, profileID string, limit int) ([]recommend.AppID, error) {
	return execute(ctx, b.api, func() ([]recommend.AppID, error) {
		return b.next.OwnedGames(ctx, profileID, limit)
	})
}

// ResolveProfile calls through the steam-api breaker.
func (b *BreakerFetcher) ResolveProfile(ctx context.Context, input string) (string, error) {
	return execute(ctx, b.api, func() (string, error) {
		return b.next.ResolveProfile(ctx, input)
	})
}

// ReviewerIDs calls through the steam-store breaker.
func (b *BreakerFetcher) ReviewerIDs(ctx context.Context, appID recommend.AppID, limit int) ([]string, error) {
	return execute(ctx, b.store, func() ([]string, error) {
		return b.next.ReviewerIDs(ctx, appID, limit)
	})
}

// GameMetadata calls through the steam-store breaker.
func (b *BreakerFetcher) GameMetadata(ctx context.Context, appID recommend.AppID) (*recommend.Game, error) {
	return execute(ctx, b.store, func() (*recommend.Game, error) {
		return b.next.GameMetadata(ctx, appID)
	})
}
