// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/steamwaiter/internal/recommend"
	"github.com/tomtom215/steamwaiter/internal/steam"
)

// errInputMode is returned when a request names both or neither of a
// profile and a game list.
var errInputMode = errors.New("exactly one of steam_id or games is required")

// errorResponse is the status, code and public message for an error.
type errorResponse struct {
	status  int
	code    string
	message string
}

// classifyError maps pipeline and Steam errors to HTTP responses. The
// checks run in order; the first match wins.
func classifyError(err error) errorResponse {
	var statusErr *steam.StatusError

	switch {
	case errors.Is(err, recommend.ErrInvalidPreferences), errors.Is(err, errInputMode):
		return errorResponse{http.StatusBadRequest, ErrCodeValidationFailed, err.Error()}
	case errors.Is(err, recommend.ErrNoSeedGames):
		return errorResponse{http.StatusUnprocessableEntity, ErrCodeNoSeedGames,
			"No seed games could be read. The profile may be private or own no games with store pages."}
	case errors.Is(err, recommend.ErrInsufficientCandidates):
		return errorResponse{http.StatusUnprocessableEntity, ErrCodeInsufficientCandidates,
			"Not enough candidate games matched to fill the result list. Try broader answers or more seed games."}
	case errors.Is(err, recommend.ErrMetadataUnavailable):
		return errorResponse{http.StatusNotFound, ErrCodeGameNotFound, "Game not found on the Steam store"}
	case errors.Is(err, recommend.ErrNotFound):
		return errorResponse{http.StatusNotFound, ErrCodeProfileNotFound, "Steam profile not found"}
	case errors.Is(err, context.DeadlineExceeded):
		return errorResponse{http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out while reading Steam"}
	case errors.Is(err, steam.ErrUnavailable), errors.Is(err, steam.ErrRateLimited), errors.As(err, &statusErr):
		return errorResponse{http.StatusBadGateway, ErrCodeExternalServiceFail, "Steam is unavailable, try again later"}
	default:
		return errorResponse{http.StatusInternalServerError, ErrCodeInternalError, "Failed to generate recommendations"}
	}
}

// writeError logs err and writes its classified response. A request whose
// client went away gets no body.
func writeError(rw *ResponseWriter, r *http.Request, err error) {
	logger := loggerFor(r)
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		logger.Debug().Err(err).Msg("Client canceled request")
		return
	}

	resp := classifyError(err)
	switch {
	case resp.status >= 500:
		logger.Error().Err(err).Int("status", resp.status).Msg("Request failed")
	default:
		logger.Info().Err(err).Int("status", resp.status).Msg("Request rejected")
	}
	rw.Error(resp.status, resp.code, resp.message)
}
