// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"fmt"
	"sort"
)

// PoolSize is the number of games in a result.
const PoolSize = 5

// preferenceScale maps leaf order 31 to a preference score of 5.
const preferenceScale = 5.0

// Ranked is one result entry.
type Ranked struct {
	Game            *Game   `json:"game"`
	LeafOrder       int     `json:"leaf_order"`
	PreferenceScore float64 `json:"preference_score"`
	CombinedScore   float64 `json:"combined_score"`
}

// PreferenceScore converts a leaf order to its share of the combined score.
func PreferenceScore(leafOrder int) float64 {
	return float64(leafOrder) / float64(MaxLeafOrder) * preferenceScale
}

func newRanked(g *Game, leafOrder int) Ranked {
	ps := PreferenceScore(leafOrder)
	return Ranked{
		Game:            g,
		LeafOrder:       leafOrder,
		PreferenceScore: ps,
		CombinedScore:   g.Likeability + ps,
	}
}

// better reports whether a strictly outranks b. Ties on every key return
// false so the incumbent is kept.
func better(a, b Ranked) bool {
	if a.CombinedScore != b.CombinedScore {
		return a.CombinedScore > b.CombinedScore
	}
	if a.LeafOrder != b.LeafOrder {
		return a.LeafOrder > b.LeafOrder
	}
	return a.Game.Likeability > b.Game.Likeability
}

func sortPool(pool []Ranked) {
	sort.SliceStable(pool, func(i, j int) bool { return better(pool[i], pool[j]) })
}

// ResultRanker merges leaf order and likeability into a top-5 list.
type ResultRanker struct{}

// NewResultRanker creates a ranker.
func NewResultRanker() *ResultRanker {
	return &ResultRanker{}
}

// Rank returns the best PoolSize games, best first.
//
// The pool is seeded from the first leaf holding at least PoolSize games. If
// no leaf does, Rank fails with ErrInsufficientCandidates rather than return
// a short list. Every game is then offered in leaf order 0..31 and replaces
// the weakest pool member only when strictly better.
func (r *ResultRanker) Rank(leaves [LeafCount][]*Game) ([]Ranked, error) {
	seedLeaf := -1
	largest, total := 0, 0
	for order, leaf := range leaves {
		total += len(leaf)
		if len(leaf) > largest {
			largest = len(leaf)
		}
		if seedLeaf < 0 && len(leaf) >= PoolSize {
			seedLeaf = order
		}
	}
	if seedLeaf < 0 {
		return nil, fmt.Errorf("%w: %d candidates, largest leaf holds %d, need a leaf with %d",
			ErrInsufficientCandidates, total, largest, PoolSize)
	}

	pool := make([]Ranked, 0, PoolSize)
	inPool := make(map[AppID]struct{}, PoolSize)
	for _, g := range leaves[seedLeaf] {
		if len(pool) == PoolSize {
			break
		}
		if _, dup := inPool[g.ID]; dup {
			continue
		}
		pool = append(pool, newRanked(g, seedLeaf))
		inPool[g.ID] = struct{}{}
	}
	sortPool(pool)

	for order, leaf := range leaves {
		for _, g := range leaf {
			if _, dup := inPool[g.ID]; dup {
				continue
			}
			challenger := newRanked(g, order)
			if len(pool) < PoolSize {
				pool = append(pool, challenger)
				inPool[g.ID] = struct{}{}
				sortPool(pool)
				continue
			}
			weakest := pool[len(pool)-1]
			if !better(challenger, weakest) {
				continue
			}
			delete(inPool, weakest.Game.ID)
			pool[len(pool)-1] = challenger
			inPool[g.ID] = struct{}{}
			sortPool(pool)
		}
	}

	return pool, nil
}
