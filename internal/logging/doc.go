// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

// Package logging provides centralized zerolog-based structured logging for
// Steam Waiter.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once at startup
//   - JSON output for production, console output for development
//   - Context-aware logging with request and crawl ID propagation
//   - An slog adapter for the Suture v4 supervisor event hook
//   - Credential masking for Steam Web API URLs
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("addr", ":3857").Msg("Server starting")
//	logging.Ctx(ctx).Warn().Int("games", n).Msg("Network incomplete")
//
// # Configuration
//
// Environment variables (read by internal/config):
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file and line (default: false)
//
// # Sensitive Data
//
// The Steam Web API key travels as the key query parameter. Log request
// URLs through SanitizeURL:
//
//	logger.Debug().Str("url", logging.SanitizeURL(u)).Msg("Steam request")
//
// # Thread Safety
//
// The global logger is guarded by a RWMutex; Init and SetLogger may be
// called while other goroutines log.
package logging
