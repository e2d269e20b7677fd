// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator reports fields by their JSON names
// (nested fields as "preferences[2].year") and carries three custom rules:
//
//   - release_year: an integer year between 1970 and 2100
//   - question: one of genre, price, release_year, online, multiplayer
//   - steam_profile: a SteamID64, community profile URL or vanity name
//
// # Quick Start
//
//	type AnswerRequest struct {
//	    Question string `json:"question" validate:"required,question"`
//	    Year     int    `json:"year" validate:"omitempty,release_year"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Errors
//
// ValidateStruct returns *RequestValidationError. ToAPIError turns it into
// a VALIDATION_FAILED code with a message and per-field details.
package validation
