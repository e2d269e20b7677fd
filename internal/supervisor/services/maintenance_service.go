// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CacheSweeper drops expired in-memory cache entries.
// Satisfied by *steam.CachingFetcher.
type CacheSweeper interface {
	Sweep() int
}

// GarbageCollector reclaims value log space in the metadata store.
// Satisfied by *store.GameStore.
type GarbageCollector interface {
	RunGC(discardRatio float64) (int, error)
}

// MaintenanceConfig holds the maintenance loop settings.
type MaintenanceConfig struct {
	// Interval between passes. Default: 10m
	Interval time.Duration

	// DiscardRatio is passed to the store GC. Default: 0.5
	DiscardRatio float64
}

// MaintenanceService periodically sweeps the metadata caches and runs the
// store's value log GC. Either collaborator may be nil.
type MaintenanceService struct {
	sweeper CacheSweeper
	gc      GarbageCollector
	config  MaintenanceConfig
	logger  zerolog.Logger
	name    string
}

// NewMaintenanceService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMaintenanceService(sweeper CacheSweeper, gc GarbageCollector, cfg MaintenanceConfig, logger zerolog.Logger) *MaintenanceService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.DiscardRatio <= 0 || cfg.DiscardRatio >= 1 {
		cfg.DiscardRatio = 0.5
	}
	return &MaintenanceService{
		sweeper: sweeper,
		gc:      gc,
		config:  cfg,
		logger:  logger.With().Str("service", "maintenance").Logger(),
		name:    "maintenance",
	}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("store_gc", s.gc != nil).
		Msg("maintenance service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("maintenance service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce performs one maintenance pass. GC failures are logged and retried
// on the next tick.
func (s *MaintenanceService) RunOnce() {
	start := time.Now()
	swept := 0
	if s.sweeper != nil {
		swept = s.sweeper.Sweep()
	}

	rewrites := 0
	if s.gc != nil {
		n, err := s.gc.RunGC(s.config.DiscardRatio)
		if err != nil {
			s.logger.Warn().Err(err).Msg("store GC failed")
		}
		rewrites = n
	}

	s.logger.Debug().
		Int("swept", swept).
		Int("gc_rewrites", rewrites).
		Dur("duration", time.Since(start)).
		Msg("maintenance pass complete")
}

// String returns the service name for logging.
func (s *MaintenanceService) String() string {
	return s.name
}
