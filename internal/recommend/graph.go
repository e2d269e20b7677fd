// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Graph is a directed, weighted recommendation graph keyed by app id.
//
// The graph owns every Game added to it. Edges run from a recommending game
// to the recommended game, with a weight in [0,1].
type Graph struct {
	mu          sync.RWMutex
	games       map[AppID]*Game
	order       []AppID
	maxTributes int
	edges       int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		games: make(map[AppID]*Game),
	}
}

// AddGame inserts a game if its id is unknown. Adding a known id is a no-op
// and leaves the existing record and its edges untouched.
func (g *Graph) AddGame(game *Game) error {
	if err := game.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.addLocked(game)
	return nil
}

func (g *Graph) addLocked(game *Game) *Game {
	if existing, ok := g.games[game.ID]; ok {
		return existing
	}
	if game.recommended == nil {
		game.recommended = make(map[AppID]float64)
	}
	g.games[game.ID] = game
	g.order = append(g.order, game.ID)
	return game
}

// AddRecommendation links source to target with the given weight, inserting
// either endpoint if it is not yet in the graph.
//
// A repeated call for the same pair overwrites the weight. The source is
// recorded as a tribute of the target only the first time.
func (g *Graph) AddRecommendation(source, target *Game, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return err
	}
	if err := source.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}
	if source.ID == target.ID {
		return fmt.Errorf("%w: self edge on app %d", ErrInvalidEdge, source.ID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	src := g.addLocked(source)
	tgt := g.addLocked(target)

	if _, exists := src.recommended[tgt.ID]; !exists {
		tgt.tributes = append(tgt.tributes, src.ID)
		g.edges++
		if n := len(tgt.tributes); n > g.maxTributes {
			g.maxTributes = n
		}
	}
	src.recommended[tgt.ID] = weight
	return nil
}

// Recommendations returns the games the given game points at, ordered by id.
func (g *Graph) Recommendations(id AppID) ([]*Game, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	game, ok := g.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: app %d", ErrNotFound, id)
	}

	out := make([]*Game, 0, len(game.recommended))
	for target := range game.recommended {
		out = append(out, g.games[target])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateEdgeWeight replaces the weight of an existing edge.
func (g *Graph) UpdateEdgeWeight(sourceID, targetID AppID, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.games[sourceID]
	if !ok {
		return fmt.Errorf("%w: source app %d", ErrNotFound, sourceID)
	}
	if _, ok := g.games[targetID]; !ok {
		return fmt.Errorf("%w: target app %d", ErrNotFound, targetID)
	}
	if _, ok := src.recommended[targetID]; !ok {
		return fmt.Errorf("%w: no edge %d -> %d", ErrInvalidEdge, sourceID, targetID)
	}
	src.recommended[targetID] = weight
	return nil
}

// UpdateAllLikeability recomputes every game's likeability:
//
//	likeability = tributesWeight + tributeScore + rating
//
// Games without tributes score their rating only.
func (g *Graph) UpdateAllLikeability() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range g.order {
		game := g.games[id]

		var tributeScore, tributesWeight float64
		if n := len(game.tributes); n > 0 {
			if g.maxTributes > 0 {
				tributeScore = float64(n) / float64(g.maxTributes)
			}
			var sum float64
			for _, t := range game.tributes {
				sum += g.games[t].recommended[id]
			}
			tributesWeight = sum / float64(n)
		}
		game.Likeability = tributesWeight + tributeScore + game.Rating
	}
}

// Game returns the game with the given id.
func (g *Graph) Game(id AppID) (*Game, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	game, ok := g.games[id]
	return game, ok
}

// Contains reports whether the id is in the graph.
func (g *Graph) Contains(id AppID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.games[id]
	return ok
}

// Weight returns the weight of the source -> target edge.
func (g *Graph) Weight(sourceID, targetID AppID) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	src, ok := g.games[sourceID]
	if !ok {
		return 0, false
	}
	w, ok := src.recommended[targetID]
	return w, ok
}

// Games returns every game in insertion order.
func (g *Graph) Games() []*Game {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Game, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.games[id])
	}
	return out
}

// Len returns the number of games.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.games)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges
}

// MaxTributes returns the largest in-degree in the graph.
func (g *Graph) MaxTributes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maxTributes
}

func checkWeight(w float64) error {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return fmt.Errorf("%w: weight %v outside [0,1]", ErrInvalidEdge, w)
	}
	return nil
}
