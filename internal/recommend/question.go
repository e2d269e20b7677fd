// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"fmt"
	"math"
	"strings"
)

// QuestionKind enumerates the five preference questions.
type QuestionKind int

const (
	QuestionGenre QuestionKind = iota
	QuestionPrice
	QuestionReleaseYear
	QuestionOnline
	QuestionMultiplayer
)

// QuestionCount is the number of questions in a complete answer list.
const QuestionCount = 5

// AllQuestions lists every kind in declaration order.
var AllQuestions = []QuestionKind{
	QuestionGenre,
	QuestionPrice,
	QuestionReleaseYear,
	QuestionOnline,
	QuestionMultiplayer,
}

var questionNames = map[QuestionKind]string{
	QuestionGenre:       "genre",
	QuestionPrice:       "price",
	QuestionReleaseYear: "release_year",
	QuestionOnline:      "online",
	QuestionMultiplayer: "multiplayer",
}

// String returns the wire name of the question.
func (k QuestionKind) String() string {
	if name, ok := questionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("question(%d)", int(k))
}

// MarshalText encodes the wire name.
func (k QuestionKind) MarshalText() ([]byte, error) {
	if _, ok := questionNames[k]; !ok {
		return nil, fmt.Errorf("unknown question kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// ParseQuestionKind maps a wire name to its kind.
func ParseQuestionKind(name string) (QuestionKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range questionNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown question %q", ErrInvalidPreferences, name)
}

// Answer is one typed preference answer. The set of implementations is
// closed: GenreAnswer, PriceAnswer, ReleaseYearAnswer, OnlineAnswer and
// MultiplayerAnswer.
type Answer interface {
	Kind() QuestionKind
	matches(g *Game, cfg TreeConfig) bool
}

// GenreAnswer passes games sharing at least one genre with the preferred
// set. An empty set passes every game.
type GenreAnswer struct {
	Genres []string
	set    map[string]struct{}
}

// NewGenreAnswer normalizes the preferred genres.
func NewGenreAnswer(genres ...string) GenreAnswer {
	normalized := NormalizeGenres(genres)
	set := make(map[string]struct{}, len(normalized))
	for _, g := range normalized {
		set[g] = struct{}{}
	}
	return GenreAnswer{Genres: normalized, set: set}
}

func (GenreAnswer) Kind() QuestionKind { return QuestionGenre }

func (a GenreAnswer) matches(g *Game, _ TreeConfig) bool {
	if len(a.Genres) == 0 {
		return true
	}
	set := a.set
	if set == nil {
		set = NewGenreAnswer(a.Genres...).set
	}
	return g.HasGenre(set)
}

// PriceAnswer passes games whose price similarity to the preferred price
// reaches the configured threshold.
type PriceAnswer struct {
	Price float64
}

func (PriceAnswer) Kind() QuestionKind { return QuestionPrice }

func (a PriceAnswer) matches(g *Game, cfg TreeConfig) bool {
	return PriceSimilarity(g.Price, a.Price, cfg.PriceDecay) >= cfg.PriceThreshold
}

// ReleaseYearAnswer passes games released within the configured window of
// the preferred year, inclusive.
type ReleaseYearAnswer struct {
	Year int
}

func (ReleaseYearAnswer) Kind() QuestionKind { return QuestionReleaseYear }

func (a ReleaseYearAnswer) matches(g *Game, cfg TreeConfig) bool {
	diff := g.ReleaseYear - a.Year
	if diff < 0 {
		diff = -diff
	}
	return diff <= cfg.YearWindow
}

// OnlineAnswer passes games whose online flag equals the preference.
type OnlineAnswer struct {
	Online bool
}

func (OnlineAnswer) Kind() QuestionKind { return QuestionOnline }

func (a OnlineAnswer) matches(g *Game, _ TreeConfig) bool {
	return g.Online == a.Online
}

// MultiplayerAnswer passes games whose multiplayer flag equals the preference.
type MultiplayerAnswer struct {
	Multiplayer bool
}

func (MultiplayerAnswer) Kind() QuestionKind { return QuestionMultiplayer }

func (a MultiplayerAnswer) matches(g *Game, _ TreeConfig) bool {
	return g.Multiplayer == a.Multiplayer
}

// PriceSimilarity returns exp(-k * |a - b|).
func PriceSimilarity(a, b, k float64) float64 {
	return math.Exp(-k * math.Abs(a-b))
}

// Preferences is the ordered answer list. Index 0 has the highest priority
// and is applied at the tree root.
type Preferences []Answer

// Validate checks that every question kind is answered exactly once.
func (p Preferences) Validate() error {
	if len(p) != QuestionCount {
		return fmt.Errorf("%w: got %d answers, want %d", ErrInvalidPreferences, len(p), QuestionCount)
	}
	seen := make(map[QuestionKind]bool, QuestionCount)
	for i, a := range p {
		if a == nil {
			return fmt.Errorf("%w: answer %d is empty", ErrInvalidPreferences, i)
		}
		k := a.Kind()
		if _, known := questionNames[k]; !known {
			return fmt.Errorf("%w: answer %d has unknown kind %d", ErrInvalidPreferences, i, int(k))
		}
		if seen[k] {
			return fmt.Errorf("%w: %s answered twice", ErrInvalidPreferences, k)
		}
		seen[k] = true
	}
	return nil
}

// Swap exchanges the answers at i and i+1.
func (p Preferences) Swap(i int) error {
	if i < 0 || i+1 >= len(p) {
		return fmt.Errorf("%w: cannot swap position %d of %d", ErrInvalidPreferences, i, len(p))
	}
	p[i], p[i+1] = p[i+1], p[i]
	return nil
}

// Kinds returns the question order.
func (p Preferences) Kinds() []QuestionKind {
	out := make([]QuestionKind, len(p))
	for i, a := range p {
		out[i] = a.Kind()
	}
	return out
}
