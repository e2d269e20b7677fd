// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package api

import (
	"fmt"
	"strings"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// maxRequestBodyBytes caps the recommendation request body.
const maxRequestBodyBytes = 64 << 10

// AnswerRequest is one preference answer on the wire. Which value field is
// read depends on the question:
//
//	genre         genres  (may be empty: every game passes)
//	price         price
//	release_year  year
//	online        value
//	multiplayer   value
type AnswerRequest struct {
	Question string   `json:"question" validate:"required,question"`
	Genres   []string `json:"genres,omitempty" validate:"omitempty,max=20,dive,required,max=64"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Year     *int     `json:"year,omitempty" validate:"omitempty,release_year"`
	Value    *bool    `json:"value,omitempty"`
}

// RecommendationRequest is the body of POST /api/v1/recommendations.
// Preferences are listed highest priority first.
type RecommendationRequest struct {
	SteamID     string          `json:"steam_id,omitempty" validate:"omitempty,steam_profile"`
	Games       []int           `json:"games,omitempty" validate:"omitempty,max=50,unique,dive,gt=0"`
	Preferences []AnswerRequest `json:"preferences" validate:"len=5,dive"`
}

// checkInputMode enforces that exactly one seed source is given.
func (r *RecommendationRequest) checkInputMode() error {
	hasProfile := strings.TrimSpace(r.SteamID) != ""
	if hasProfile == (len(r.Games) > 0) {
		return errInputMode
	}
	return nil
}

// SeedGames returns the explicit seed list as app ids.
func (r *RecommendationRequest) SeedGames() []recommend.AppID {
	if len(r.Games) == 0 {
		return nil
	}
	ids := make([]recommend.AppID, len(r.Games))
	for i, id := range r.Games {
		ids[i] = recommend.AppID(id)
	}
	return ids
}

// ToPreferences converts the wire answers to typed answers, keeping their
// order. Each kind must appear once and carry its value field.
func (r *RecommendationRequest) ToPreferences() (recommend.Preferences, error) {
	prefs := make(recommend.Preferences, 0, len(r.Preferences))
	for i, a := range r.Preferences {
		answer, err := a.toAnswer()
		if err != nil {
			return nil, fmt.Errorf("preferences[%d]: %w", i, err)
		}
		prefs = append(prefs, answer)
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (a AnswerRequest) toAnswer() (recommend.Answer, error) {
	kind, err := recommend.ParseQuestionKind(a.Question)
	if err != nil {
		return nil, err
	}

	switch kind {
	case recommend.QuestionGenre:
		return recommend.NewGenreAnswer(a.Genres...), nil
	case recommend.QuestionPrice:
		if a.Price == nil {
			return nil, missingField(kind, "price")
		}
		return recommend.PriceAnswer{Price: *a.Price}, nil
	case recommend.QuestionReleaseYear:
		if a.Year == nil {
			return nil, missingField(kind, "year")
		}
		return recommend.ReleaseYearAnswer{Year: *a.Year}, nil
	case recommend.QuestionOnline:
		if a.Value == nil {
			return nil, missingField(kind, "value")
		}
		return recommend.OnlineAnswer{Online: *a.Value}, nil
	case recommend.QuestionMultiplayer:
		if a.Value == nil {
			return nil, missingField(kind, "value")
		}
		return recommend.MultiplayerAnswer{Multiplayer: *a.Value}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported question %s", recommend.ErrInvalidPreferences, kind)
	}
}

func missingField(kind recommend.QuestionKind, field string) error {
	return fmt.Errorf("%w: %s answer needs %q", recommend.ErrInvalidPreferences, kind, field)
}
