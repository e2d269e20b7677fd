// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/steamwaiter/internal/logging"
	"github.com/tomtom215/steamwaiter/internal/recommend"
	"github.com/tomtom215/steamwaiter/internal/validation"
)

// Recommendations handles POST /api/v1/recommendations.
//
// The body names either a Steam profile (SteamID64, profile URL or vanity
// name) or an explicit list of app ids, plus the five ranked answers. The
// response carries the top five games, the per-depth split of the
// preference tree and statistics about the crawled network.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
			return
		}
		rw.BadRequest("Failed to read request body")
		return
	}

	var req RecommendationRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}
	if err := req.checkInputMode(); err != nil {
		rw.ValidationError(err.Error(), nil)
		return
	}
	prefs, err := req.ToPreferences()
	if err != nil {
		rw.ValidationError(err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	engineReq := recommend.Request{
		RequestID:   logging.RequestIDFromContext(ctx),
		SeedGames:   req.SeedGames(),
		Preferences: prefs,
	}
	if req.SteamID != "" {
		profileID, err := h.source.ResolveProfile(ctx, req.SteamID)
		if err != nil {
			writeError(rw, r, err)
			return
		}
		engineReq.ProfileID = profileID
	}

	logger := loggerFor(r)
	logger.Info().
		Str("profile_id", engineReq.ProfileID).
		Int("seed_games", len(engineReq.SeedGames)).
		Strs("question_order", questionOrder(prefs)).
		Msg("Recommendation requested")

	resp, err := h.engine.Recommend(ctx, engineReq)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	rw.Success(resp)
}

func questionOrder(prefs recommend.Preferences) []string {
	kinds := prefs.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// QuestionInfo describes one preference question for clients.
type QuestionInfo struct {
	Question    string `json:"question"`
	Field       string `json:"field"`
	AnswerType  string `json:"answer_type"`
	Description string `json:"description"`
}

// QuestionsResponse is the body of GET /api/v1/questions.
type QuestionsResponse struct {
	Questions []QuestionInfo       `json:"questions"`
	Tuning    recommend.TreeConfig `json:"tuning"`
	Depth     int                  `json:"depth"`
	Leaves    int                  `json:"leaves"`
	Results   int                  `json:"results"`
}

var questionInfo = map[recommend.QuestionKind]QuestionInfo{
	recommend.QuestionGenre: {
		Field:       "genres",
		AnswerType:  "string[]",
		Description: "Games sharing at least one store tag pass. An empty list passes every game.",
	},
	recommend.QuestionPrice: {
		Field:       "price",
		AnswerType:  "number",
		Description: "Games whose price similarity exp(-price_decay*|diff|) reaches price_threshold pass.",
	},
	recommend.QuestionReleaseYear: {
		Field:       "year",
		AnswerType:  "integer",
		Description: "Games released within year_window years of the answer pass.",
	},
	recommend.QuestionOnline: {
		Field:       "value",
		AnswerType:  "boolean",
		Description: "Games whose online flag equals the answer pass.",
	},
	recommend.QuestionMultiplayer: {
		Field:       "value",
		AnswerType:  "boolean",
		Description: "Games whose multiplayer flag equals the answer pass.",
	},
}

// Questions handles GET /api/v1/questions.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	resp := QuestionsResponse{
		Questions: make([]QuestionInfo, 0, len(recommend.AllQuestions)),
		Tuning:    h.cfg.Tree,
		Depth:     recommend.TreeDepth,
		Leaves:    recommend.LeafCount,
		Results:   recommend.PoolSize,
	}
	for _, kind := range recommend.AllQuestions {
		info := questionInfo[kind]
		info.Question = kind.String()
		resp.Questions = append(resp.Questions, info)
	}
	WriteSuccess(w, r, resp)
}
