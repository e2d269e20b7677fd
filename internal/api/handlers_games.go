// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// Game handles GET /api/v1/games/{appID}. Metadata comes from the cache
// layers when present.
func (h *Handler) Game(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	appID, err := strconv.Atoi(chi.URLParam(r, "appID"))
	if err != nil || appID <= 0 {
		rw.ValidationError("appID must be a positive integer", map[string]interface{}{
			"field": "appID",
			"value": chi.URLParam(r, "appID"),
		})
		return
	}

	game, err := h.source.GameMetadata(r.Context(), recommend.AppID(appID))
	if err != nil {
		writeError(rw, r, err)
		return
	}
	rw.Success(game)
}
