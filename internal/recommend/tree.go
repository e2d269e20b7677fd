// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

import "fmt"

// Tree shape constants. The tree is complete: internal nodes occupy indexes
// 0..30 of a flat array and leaves 31..62, with the children of node i at
// 2i+1 (failed the filter) and 2i+2 (passed the filter).
const (
	TreeDepth    = QuestionCount
	LeafCount    = 1 << TreeDepth
	MaxLeafOrder = LeafCount - 1

	nodeCount = 2*LeafCount - 1
	firstLeaf = LeafCount - 1
)

// LevelProgress reports how one question split the games at its depth.
type LevelProgress struct {
	Question         QuestionKind `json:"question"`
	Depth            int          `json:"depth"`
	Positive         int          `json:"positive"`
	Negative         int          `json:"negative"`
	PositiveFraction float64      `json:"positive_fraction"`
	NegativeFraction float64      `json:"negative_fraction"`
}

// ProgressFunc receives a LevelProgress after each depth completes.
type ProgressFunc func(LevelProgress)

// Partition is the output of a tree run. Leaves[i] holds the games with
// leaf order i, where 0 failed every filter and 31 passed every filter.
type Partition struct {
	Leaves   [LeafCount][]*Game
	Progress []LevelProgress
}

// Total returns the number of partitioned games.
func (p *Partition) Total() int {
	n := 0
	for _, leaf := range p.Leaves {
		n += len(leaf)
	}
	return n
}

// PreferenceTree partitions games by five ordered preference answers. It is
// immutable after construction and safe for concurrent use.
type PreferenceTree struct {
	cfg   TreeConfig
	prefs Preferences
}

// NewPreferenceTree validates the answers and tuning constants.
func NewPreferenceTree(cfg TreeConfig, prefs Preferences) (*PreferenceTree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree config: %w", err)
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	return &PreferenceTree{
		cfg:   cfg,
		prefs: append(Preferences(nil), prefs...),
	}, nil
}

// Partition streams the games through the tree breadth-first. Each depth
// applies its answer to every node at that depth, then reports the split to
// onProgress when it is non-nil.
func (t *PreferenceTree) Partition(games []*Game, onProgress ProgressFunc) *Partition {
	var nodes [nodeCount][]*Game
	nodes[0] = games

	out := &Partition{Progress: make([]LevelProgress, 0, TreeDepth)}

	for depth := 0; depth < TreeDepth; depth++ {
		answer := t.prefs[depth]
		first := (1 << depth) - 1
		last := (1 << (depth + 1)) - 1

		var positive, negative int
		for i := first; i < last; i++ {
			pass, fail := t.split(nodes[i], answer)
			nodes[2*i+1] = fail
			nodes[2*i+2] = pass
			nodes[i] = nil
			positive += len(pass)
			negative += len(fail)
		}

		progress := LevelProgress{
			Question: answer.Kind(),
			Depth:    depth,
			Positive: positive,
			Negative: negative,
		}
		if total := positive + negative; total > 0 {
			progress.PositiveFraction = float64(positive) / float64(total)
			progress.NegativeFraction = float64(negative) / float64(total)
		}
		out.Progress = append(out.Progress, progress)
		if onProgress != nil {
			onProgress(progress)
		}
	}

	for order := 0; order < LeafCount; order++ {
		out.Leaves[order] = nodes[firstLeaf+order]
	}
	return out
}

func (t *PreferenceTree) split(games []*Game, answer Answer) (pass, fail []*Game) {
	for _, g := range games {
		if answer.matches(g, t.cfg) {
			pass = append(pass, g)
		} else {
			fail = append(fail, g)
		}
	}
	return pass, fail
}

// Preferences returns a copy of the answer order.
func (t *PreferenceTree) Preferences() Preferences {
	return append(Preferences(nil), t.prefs...)
}
