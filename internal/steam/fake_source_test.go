// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// fakeSource is an in-memory Source that counts calls.
type fakeSource struct {
	mu        sync.Mutex
	games     map[recommend.AppID]*recommend.Game
	reviewers map[recommend.AppID][]string
	err       error
	calls     map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		games:     make(map[recommend.AppID]*recommend.Game),
		reviewers: make(map[recommend.AppID][]string),
		calls:     make(map[string]int),
	}
}

func (f *fakeSource) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeSource) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.err
}

func (f *fakeSource) OwnedGames(_ context.Context, _ string, _ int) ([]recommend.AppID, error) {
	if err := f.record("OwnedGames"); err != nil {
		return nil, err
	}
	return []recommend.AppID{620}, nil
}

func (f *fakeSource) ResolveProfile(_ context.Context, input string) (string, error) {
	if err := f.record("ResolveProfile"); err != nil {
		return "", err
	}
	return input, nil
}

func (f *fakeSource) ReviewerIDs(_ context.Context, appID recommend.AppID, limit int) ([]string, error) {
	if err := f.record("ReviewerIDs"); err != nil {
		return nil, err
	}
	ids := f.reviewers[appID]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return append([]string(nil), ids...), nil
}

func (f *fakeSource) GameMetadata(_ context.Context, appID recommend.AppID) (*recommend.Game, error) {
	if err := f.record("GameMetadata"); err != nil {
		return nil, err
	}
	g, ok := f.games[appID]
	if !ok {
		return nil, fmt.Errorf("%w: app %d", recommend.ErrMetadataUnavailable, appID)
	}
	return g.Clone(), nil
}

func portal2() *recommend.Game {
	return &recommend.Game{
		ID:          620,
		Name:        "Portal 2",
		Genres:      []string{"co-op", "puzzle"},
		Price:       9.99,
		ReleaseYear: 2011,
		Multiplayer: true,
		Rating:      1.0,
	}
}
