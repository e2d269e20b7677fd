// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// AppID is a Steam storefront application id.
type AppID int

// String returns the decimal app id.
func (id AppID) String() string {
	return fmt.Sprintf("%d", int(id))
}

// Game is a storefront title plus the graph state attached to it once it
// joins a Graph.
//
// Metadata fields are filled by a Fetcher. Likeability and the edge fields
// are owned by the Graph the game was added to and must not be modified
// directly.
type Game struct {
	// ID is the Steam app id.
	ID AppID `json:"app_id"`

	// Name is the display name. Never empty.
	Name string `json:"name"`

	// Genres holds the store's user tags, lower-cased and sorted.
	Genres []string `json:"genres"`

	// Price is the current price in the store's currency units.
	Price float64 `json:"price"`

	// ReleaseYear is the calendar year of release, 0 when unknown.
	ReleaseYear int `json:"release_year"`

	// Online reports an online component.
	Online bool `json:"online"`

	// Multiplayer reports a multiplayer mode.
	Multiplayer bool `json:"multiplayer"`

	// Rating is the normalized review sentiment in [0,1].
	Rating float64 `json:"rating"`

	// Likeability is derived by Graph.UpdateAllLikeability.
	Likeability float64 `json:"likeability"`

	// tributes lists the games with an edge into this one, in the order
	// those edges were first added. Each source appears once, so a repeated
	// edge cannot inflate tributeScore.
	tributes []AppID

	// recommended maps a target game to the weight of this game's edge to it.
	recommended map[AppID]float64
}

// Validate checks the record invariants.
func (g *Game) Validate() error {
	switch {
	case g == nil:
		return fmt.Errorf("%w: nil game", ErrInvalidGame)
	case strings.TrimSpace(g.Name) == "":
		return fmt.Errorf("%w: app %d has an empty name", ErrInvalidGame, g.ID)
	case g.Price < 0 || math.IsNaN(g.Price):
		return fmt.Errorf("%w: app %d has price %v", ErrInvalidGame, g.ID, g.Price)
	case g.Rating < 0 || g.Rating > 1 || math.IsNaN(g.Rating):
		return fmt.Errorf("%w: app %d has rating %v", ErrInvalidGame, g.ID, g.Rating)
	case g.ReleaseYear < 0:
		return fmt.Errorf("%w: app %d has release year %d", ErrInvalidGame, g.ID, g.ReleaseYear)
	}
	return nil
}

// Clone returns a copy of the metadata without any graph state.
func (g *Game) Clone() *Game {
	c := &Game{
		ID:          g.ID,
		Name:        g.Name,
		Price:       g.Price,
		ReleaseYear: g.ReleaseYear,
		Online:      g.Online,
		Multiplayer: g.Multiplayer,
		Rating:      g.Rating,
	}
	if len(g.Genres) > 0 {
		c.Genres = append([]string(nil), g.Genres...)
	}
	return c
}

// Tributes returns the ids of games recommending this one.
func (g *Game) Tributes() []AppID {
	return append([]AppID(nil), g.tributes...)
}

// RecommendedGames returns a copy of this game's outgoing edges.
func (g *Game) RecommendedGames() map[AppID]float64 {
	out := make(map[AppID]float64, len(g.recommended))
	for id, w := range g.recommended {
		out[id] = w
	}
	return out
}

// HasGenre reports whether the game carries any genre in the set.
func (g *Game) HasGenre(set map[string]struct{}) bool {
	for _, genre := range g.Genres {
		if _, ok := set[genre]; ok {
			return true
		}
	}
	return false
}

// NormalizeGenres lower-cases, trims, de-duplicates and sorts genre tags.
func NormalizeGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Fetcher is the collaborator that reads Steam. Implementations decide
// sampling order, retries and caching; the core only needs bounded,
// order-stable answers.
type Fetcher interface {
	// OwnedGames returns the profile's games, most played first. A private
	// or empty library returns an empty slice and no error. limit <= 0
	// returns every game.
	OwnedGames(ctx context.Context, profileID string, limit int) ([]AppID, error)

	// ReviewerIDs returns up to limit reviewer profile ids for the game.
	ReviewerIDs(ctx context.Context, appID AppID, limit int) ([]string, error)

	// GameMetadata returns a fresh record the caller may own. Missing
	// titles return an error wrapping ErrMetadataUnavailable.
	GameMetadata(ctx context.Context, appID AppID) (*Game, error)
}

// Request is a single recommendation request.
type Request struct {
	// RequestID is used for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`

	// ProfileID is a SteamID64. Its library seeds the crawl and every
	// owned game is excluded from the results.
	ProfileID string `json:"profile_id,omitempty"`

	// SeedGames is an explicit seed list used when ProfileID is empty. The
	// seeds are excluded from the results.
	SeedGames []AppID `json:"seed_games,omitempty"`

	// Preferences are the five answers in priority order.
	Preferences Preferences `json:"-"`

	// OnProgress, if set, receives one tuple per completed tree depth.
	OnProgress ProgressFunc `json:"-"`
}

// Response is the result of a recommendation request.
type Response struct {
	RequestID string          `json:"request_id"`
	Results   []Ranked        `json:"results"`
	Progress  []LevelProgress `json:"progress"`
	Network   NetworkSummary  `json:"network"`
	Metadata  Metadata        `json:"metadata"`
}

// NetworkSummary describes the graph a response was computed from.
type NetworkSummary struct {
	Games       int    `json:"games"`
	Edges       int    `json:"edges"`
	MaxTributes int    `json:"max_tributes"`
	Candidates  int    `json:"candidates"`
	Excluded    int    `json:"excluded"`
	Incomplete  bool   `json:"incomplete"`
	StopReason  string `json:"stop_reason,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	LatencyMS   int64     `json:"latency_ms"`
	CrawlMS     int64     `json:"crawl_ms"`
}
