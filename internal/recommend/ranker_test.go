// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import (
	"errors"
	"testing"
)

func liked(id AppID, likeability float64) *Game {
	g := testGame(id)
	g.Likeability = likeability
	return g
}

func rankedIDs(r []Ranked) []AppID {
	out := make([]AppID, len(r))
	for i, e := range r {
		out[i] = e.Game.ID
	}
	return out
}

func equalIDs(a, b []AppID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPreferenceScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		order int
		want  float64
	}{
		{0, 0},
		{10, 10.0 / 31 * 5},
		{31, 5},
	}
	for _, tt := range tests {
		if got := PreferenceScore(tt.order); !almostEqual(got, tt.want) {
			t.Errorf("PreferenceScore(%d) = %v, want %v", tt.order, got, tt.want)
		}
	}
}

func TestResultRanker_LeafOrderDominates(t *testing.T) {
	t.Parallel()

	var leaves [LeafCount][]*Game
	a, b, c := liked(1, 1.0), liked(2, 0.5), liked(3, 0.2)
	leaves[10] = []*Game{a}
	leaves[20] = []*Game{b}
	leaves[30] = []*Game{c}
	leaves[0] = []*Game{liked(4, 0), liked(5, 0), liked(6, 0), liked(7, 0), liked(8, 0)}

	got, err := NewResultRanker().Rank(leaves)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	want := []AppID{3, 2, 1, 4, 5}
	if ids := rankedIDs(got); !equalIDs(ids, want) {
		t.Fatalf("Rank() = %v, want %v", ids, want)
	}

	scores := []float64{0.2 + 30.0/31*5, 0.5 + 20.0/31*5, 1.0 + 10.0/31*5}
	for i, want := range scores {
		if !almostEqual(got[i].CombinedScore, want) {
			t.Errorf("results[%d].CombinedScore = %v, want %v", i, got[i].CombinedScore, want)
		}
	}
	if got[0].LeafOrder != 30 {
		t.Errorf("results[0].LeafOrder = %d, want 30", got[0].LeafOrder)
	}
}

func TestResultRanker_TieBreaks(t *testing.T) {
	t.Parallel()

	t.Run("equal score prefers higher leaf order", func(t *testing.T) {
		t.Parallel()
		var leaves [LeafCount][]*Game
		// Both combine to exactly 5.
		low := liked(1, PreferenceScore(31)-PreferenceScore(0))
		high := liked(2, 0)
		leaves[0] = []*Game{low, liked(10, 0), liked(11, 0), liked(12, 0), liked(13, 0)}
		leaves[31] = []*Game{high}

		got, err := NewResultRanker().Rank(leaves)
		if err != nil {
			t.Fatal(err)
		}
		if got[0].Game.ID != 2 || got[1].Game.ID != 1 {
			t.Errorf("Rank() = %v, want [2 1 ...]", rankedIDs(got))
		}
	})

	t.Run("exact duplicates keep the incumbent", func(t *testing.T) {
		t.Parallel()
		var leaves [LeafCount][]*Game
		leaves[3] = []*Game{liked(1, 0.5), liked(2, 0.5), liked(3, 0.5), liked(4, 0.5), liked(5, 0.5), liked(6, 0.5), liked(7, 0.5)}

		got, err := NewResultRanker().Rank(leaves)
		if err != nil {
			t.Fatal(err)
		}
		if ids := rankedIDs(got); !equalIDs(ids, []AppID{1, 2, 3, 4, 5}) {
			t.Errorf("Rank() = %v, want first five seen", ids)
		}
	})

	t.Run("better compares likeability last", func(t *testing.T) {
		t.Parallel()
		a := Ranked{Game: liked(1, 0.9), LeafOrder: 4, CombinedScore: 2}
		b := Ranked{Game: liked(2, 0.1), LeafOrder: 4, CombinedScore: 2}
		if !better(a, b) || better(b, a) {
			t.Error("higher likeability should win when score and order tie")
		}
		if better(a, a) {
			t.Error("a full tie must not displace the incumbent")
		}
	})
}

func TestResultRanker_Properties(t *testing.T) {
	t.Parallel()

	tree, err := NewPreferenceTree(DefaultTreeConfig(), fullPreferences())
	if err != nil {
		t.Fatal(err)
	}
	games := variedGames(400)
	for i, g := range games {
		g.Likeability = float64((i*37)%100) / 50
	}
	part := tree.Partition(games, nil)

	ranker := NewResultRanker()
	first, err := ranker.Rank(part.Leaves)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(first) != PoolSize {
		t.Fatalf("Rank() returned %d results, want %d", len(first), PoolSize)
	}
	seen := make(map[AppID]bool)
	for i, r := range first {
		if seen[r.Game.ID] {
			t.Errorf("game %d returned twice", r.Game.ID)
		}
		seen[r.Game.ID] = true
		if i > 0 && first[i-1].CombinedScore < r.CombinedScore {
			t.Errorf("results not ordered: %v before %v", first[i-1].CombinedScore, r.CombinedScore)
		}
	}

	// Nothing left out scores higher than the weakest result.
	weakest := first[len(first)-1]
	for order, leaf := range part.Leaves {
		for _, g := range leaf {
			if seen[g.ID] {
				continue
			}
			if better(newRanked(g, order), weakest) {
				t.Errorf("game %d (leaf %d) beats the weakest result", g.ID, order)
			}
		}
	}

	second, err := ranker.Rank(part.Leaves)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(rankedIDs(first), rankedIDs(second)) {
		t.Errorf("Rank() not deterministic: %v vs %v", rankedIDs(first), rankedIDs(second))
	}
}

func TestResultRanker_InsufficientCandidates(t *testing.T) {
	t.Parallel()

	var leaves [LeafCount][]*Game
	// Plenty of games overall, but no leaf holds five.
	for order := 0; order < LeafCount; order += 2 {
		leaves[order] = []*Game{liked(AppID(order*10+1), 1), liked(AppID(order*10+2), 1)}
	}

	_, err := NewResultRanker().Rank(leaves)
	if !errors.Is(err, ErrInsufficientCandidates) {
		t.Errorf("Rank() error = %v, want ErrInsufficientCandidates", err)
	}
}
