// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package recommend

// appearanceTally is the running count of game appearances across every
// reviewer library sampled during one crawl. It is never reset between
// frontier games, so weights drift as the total grows.
//
// Only the goroutine driving Build touches it.
type appearanceTally struct {
	counts map[AppID]int
	total  int
}

func newAppearanceTally() *appearanceTally {
	return &appearanceTally{counts: make(map[AppID]int)}
}

// observe records one appearance of each id.
func (t *appearanceTally) observe(ids []AppID) {
	for _, id := range ids {
		t.counts[id]++
		t.total++
	}
}

// weight is the share of all appearances so far that belong to id.
func (t *appearanceTally) weight(id AppID) float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.counts[id]) / float64(t.total)
}

func (t *appearanceTally) count(id AppID) int {
	return t.counts[id]
}
