// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/steamwaiter/internal/api"
	"github.com/tomtom215/steamwaiter/internal/config"
	"github.com/tomtom215/steamwaiter/internal/logging"
	"github.com/tomtom215/steamwaiter/internal/metrics"
	"github.com/tomtom215/steamwaiter/internal/recommend"
	"github.com/tomtom215/steamwaiter/internal/steam"
	"github.com/tomtom215/steamwaiter/internal/store"
	"github.com/tomtom215/steamwaiter/internal/supervisor"
	"github.com/tomtom215/steamwaiter/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Int("target_size", cfg.Crawl.TargetSize).
		Bool("store_enabled", cfg.Store.Enabled).
		Msg("Starting Steam Waiter")

	// === DATA LAYER ===

	var gameStore *store.GameStore
	if cfg.Store.Enabled {
		gameStore, err = store.Open(store.Options{Path: cfg.Store.Path, TTL: cfg.Store.TTL})
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open metadata store")
		}
		defer func() {
			if err := gameStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing metadata store")
			}
		}()
		logging.Info().Str("path", cfg.Store.Path).Dur("ttl", cfg.Store.TTL).Msg("Metadata store opened")
	}

	client, err := steam.NewClient(steam.Config{
		APIKey:            cfg.Steam.APIKey,
		APIBaseURL:        cfg.Steam.APIBaseURL,
		StoreBaseURL:      cfg.Steam.StoreBaseURL,
		Timeout:           cfg.Steam.Timeout,
		RequestsPerSecond: cfg.Steam.RequestsPerSecond,
		Burst:             cfg.Steam.Burst,
		MaxRetries:        cfg.Steam.MaxRetries,
		Language:          cfg.Steam.Language,
		ReviewFilter:      cfg.Steam.ReviewFilter,
		UserAgent:         cfg.Steam.UserAgent,
	}, logging.WithComponent("steam"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create Steam client")
	}

	breakers := steam.NewBreakerFetcher(client, logging.WithComponent("steam"))

	cacheOpts := steam.CacheOptions{
		Capacity:    cfg.Cache.Capacity,
		TTL:         cfg.Cache.TTL,
		NegativeTTL: cfg.Cache.NegativeTTL,
	}
	if gameStore != nil {
		cacheOpts.Store = gameStore
	}
	source := steam.NewCachingFetcher(breakers, cacheOpts, logging.WithComponent("cache"))

	engine, err := recommend.NewEngine(cfg.RecommendConfig(), source, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.SetRecorder(metrics.NewRecorder())

	// === API LAYER ===

	handler, err := api.NewHandler(engine, source, api.HandlerConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		Tree:           engine.Config().Tree,
		Version:        version,
	}, readinessChecks(breakers, gameStore)...)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED; every client can start unlimited crawls")
	}

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled

	// Recommendation responses are written after the crawl, so the write
	// deadline has to outlast the request timeout.
	writeTimeout := cfg.Server.Timeout
	if minWrite := cfg.Server.RequestTimeout + 10*time.Second; writeTimeout < minWrite {
		writeTimeout = minWrite
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, api.NewChiMiddleware(mwCfg)),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	var gc services.GarbageCollector
	if gameStore != nil {
		gc = gameStore
	}
	maintenance := services.NewMaintenanceService(source, gc, services.MaintenanceConfig{
		Interval: cfg.Store.GCInterval,
	}, logging.WithComponent("supervisor"))
	tree.AddDataService(maintenance)
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.WithComponent("supervisor")))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// readinessChecks reports the Steam API breaker and, when enabled, the
// metadata store. An open store breaker only degrades metadata lookups, so
// it is not a readiness failure.
func readinessChecks(breakers *steam.BreakerFetcher, gameStore *store.GameStore) []api.ReadinessCheck {
	checks := []api.ReadinessCheck{{
		Name: steam.BreakerAPI,
		Check: func(context.Context) error {
			if state := breakers.State(steam.BreakerAPI); state == "open" {
				return errors.New("circuit breaker open")
			}
			return nil
		},
	}}
	if gameStore != nil {
		checks = append(checks, api.ReadinessCheck{
			Name: "store",
			Check: func(ctx context.Context) error {
				_, err := gameStore.Count(ctx)
				return err
			},
		})
	}
	return checks
}
