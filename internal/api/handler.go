// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/steamwaiter/internal/logging"
	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Stats() recommend.EngineStats
}

// GameSource serves single-game lookups and profile resolution.
type GameSource interface {
	GameMetadata(ctx context.Context, appID recommend.AppID) (*recommend.Game, error)
	ResolveProfile(ctx context.Context, input string) (string, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	// RequestTimeout bounds one recommendation request, crawl included.
	RequestTimeout time.Duration

	// Tree is reported by the questions endpoint.
	Tree recommend.TreeConfig

	Version string
}

// Handler serves the API endpoints.
type Handler struct {
	engine    Recommender
	source    GameSource
	checks    []ReadinessCheck
	cfg       HandlerConfig
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(engine Recommender, source GameSource, cfg HandlerConfig, checks ...ReadinessCheck) (*Handler, error) {
	if engine == nil {
		return nil, errors.New("recommender is required")
	}
	if source == nil {
		return nil, errors.New("game source is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 3 * time.Minute
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		engine:    engine,
		source:    source,
		checks:    checks,
		cfg:       cfg,
		startTime: time.Now(),
	}, nil
}

// loggerFor returns the request logger tagged with the api component.
func loggerFor(r *http.Request) zerolog.Logger {
	return logging.CtxWith(r.Context()).Str("component", "api").Logger()
}
