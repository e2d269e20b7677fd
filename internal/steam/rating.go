// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import "strings"

// defaultRating is used for unrecognized review summaries.
const defaultRating = 0.1

// reviewRatings maps the store's review summary labels to [0,1].
var reviewRatings = map[string]float64{
	"overwhelmingly positive": 1.0,
	"very positive":           0.9,
	"positive":                0.8,
	"mostly positive":         0.7,
	"mixed":                   0.5,
	"mostly negative":         0.4,
	"negative":                0.3,
	"very negative":           0.2,
	"overwhelmingly negative": 0.1,
}

// RatingFromSummary converts a review summary such as "Very Positive" into
// a rating. Unknown summaries, including "N user reviews", rate 0.1.
func RatingFromSummary(summary string) float64 {
	key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(summary, ",", "")))
	if r, ok := reviewRatings[key]; ok {
		return r
	}
	return defaultRating
}
