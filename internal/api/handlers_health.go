// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// readinessTimeout bounds all readiness checks of one probe.
const readinessTimeout = 2 * time.Second

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status  string                `json:"status"`
	Version string                `json:"version"`
	Uptime  float64               `json:"uptime_seconds"`
	Checks  map[string]string     `json:"checks"`
	Engine  recommend.EngineStats `json:"engine"`
}

// runChecks runs every readiness check and returns name -> "ok" or the
// error text, plus whether all passed.
func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ok := true
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			results[c.Name] = err.Error()
			ok = false
			continue
		}
		results[c.Name] = "ok"
	}
	return results, ok
}

// Health handles GET /api/v1/health. It always answers 200; a failing
// dependency turns the status to "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks, ok := h.runChecks(r.Context())
	status := "healthy"
	if !ok {
		status = "degraded"
	}

	WriteSuccess(w, r, HealthStatus{
		Status:  status,
		Version: h.cfg.Version,
		Uptime:  time.Since(h.startTime).Seconds(),
		Checks:  checks,
		Engine:  h.engine.Stats(),
	})
}

// HealthLive handles the liveness probe. It answers 200 while the process
// runs, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles the readiness probe: 200 when every check passes,
// 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks, ok := h.runChecks(r.Context())
	statusCode := http.StatusOK
	if !ok {
		statusCode = http.StatusServiceUnavailable
	}

	NewResponseWriter(w, r).SuccessWithStatus(statusCode, map[string]interface{}{
		"ready":  ok,
		"checks": checks,
	})
}
