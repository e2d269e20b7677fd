// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// memStore is a GameStore backed by a map.
type memStore struct {
	mu    sync.Mutex
	games map[recommend.AppID]*recommend.Game
	puts  int
}

func newMemStore() *memStore {
	return &memStore{games: make(map[recommend.AppID]*recommend.Game)}
}

func (m *memStore) Get(_ context.Context, id recommend.AppID) (*recommend.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, errors.New("miss")
	}
	return g.Clone(), nil
}

func (m *memStore) Put(_ context.Context, g *recommend.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.games[g.ID] = g.Clone()
	return nil
}

func newTestCache(src Source, store GameStore) *CachingFetcher {
	return NewCachingFetcher(src, CacheOptions{
		Capacity:    100,
		TTL:         time.Hour,
		NegativeTTL: time.Minute,
		Store:       store,
	}, zerolog.Nop())
}

func TestCachingFetcher_GameMetadata(t *testing.T) {
	src := newFakeSource()
	src.games[620] = portal2()
	store := newMemStore()
	c := newTestCache(src, store)

	first, err := c.GameMetadata(context.Background(), 620)
	if err != nil {
		t.Fatalf("GameMetadata() error = %v", err)
	}
	first.Likeability = 42

	second, err := c.GameMetadata(context.Background(), 620)
	if err != nil {
		t.Fatalf("GameMetadata() error = %v", err)
	}
	if first == second {
		t.Error("cache returned the same pointer twice")
	}
	if second.Likeability != 0 {
		t.Error("mutation of a returned game leaked into the cache")
	}
	if n := src.count("GameMetadata"); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
	if store.puts != 1 {
		t.Errorf("store puts = %d, want 1", store.puts)
	}
	if s := c.Stats(); s.Hits != 1 {
		t.Errorf("memory hits = %d, want 1", s.Hits)
	}
}

func TestCachingFetcher_StoreLayer(t *testing.T) {
	src := newFakeSource()
	store := newMemStore()
	store.games[620] = portal2()
	c := newTestCache(src, store)

	for i := 0; i < 2; i++ {
		g, err := c.GameMetadata(context.Background(), 620)
		if err != nil || g.Name != "Portal 2" {
			t.Fatalf("GameMetadata() = %v, %v", g, err)
		}
	}
	if n := src.count("GameMetadata"); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("memory stats = %+v, want 1 hit 1 miss", s)
	}
}

func TestCachingFetcher_NegativeCache(t *testing.T) {
	src := newFakeSource()
	c := newTestCache(src, nil)

	for i := 0; i < 3; i++ {
		if _, err := c.GameMetadata(context.Background(), 1); !errors.Is(err, recommend.ErrMetadataUnavailable) {
			t.Fatalf("error = %v, want ErrMetadataUnavailable", err)
		}
	}
	if n := src.count("GameMetadata"); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestCachingFetcher_ErrorsNotCached(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("timeout")
	c := newTestCache(src, nil)

	for i := 0; i < 2; i++ {
		if _, err := c.GameMetadata(context.Background(), 620); err == nil {
			t.Fatal("expected error")
		}
	}
	if n := src.count("GameMetadata"); n != 2 {
		t.Errorf("upstream calls = %d, want 2", n)
	}
}

// gatedSource blocks GameMetadata until release is closed, or until the
// call's own context ends.
type gatedSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSource) GameMetadata(ctx context.Context, appID recommend.AppID) (*recommend.Game, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
	}
	return g.fakeSource.GameMetadata(ctx, appID)
}

func TestCachingFetcher_SharedLoadSurvivesCallerCancel(t *testing.T) {
	src := &gatedSource{
		fakeSource: newFakeSource(),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	src.games[620] = portal2()
	c := newTestCache(src, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GameMetadata(firstCtx, 620)
		firstErr <- err
	}()
	<-src.started

	type result struct {
		game *recommend.Game
		err  error
	}
	second := make(chan result, 1)
	go func() {
		g, err := c.GameMetadata(context.Background(), 620)
		second <- result{g, err}
	}()

	cancelFirst()
	select {
	case err := <-firstErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("canceled caller error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("canceled caller still waiting on the shared load")
	}

	close(src.release)
	select {
	case res := <-second:
		if res.err != nil {
			t.Fatalf("live caller error = %v", res.err)
		}
		if res.game.ID != 620 {
			t.Errorf("game = %d, want 620", res.game.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("live caller never received the shared result")
	}

	if n := src.count("GameMetadata"); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
	if _, err := c.GameMetadata(context.Background(), 620); err != nil {
		t.Errorf("cached lookup error = %v", err)
	}
}

func TestCachingFetcher_ReviewerIDs(t *testing.T) {
	src := newFakeSource()
	src.reviewers[620] = []string{"a", "b", "c"}
	c := newTestCache(src, nil)

	ids, err := c.ReviewerIDs(context.Background(), 620, 2)
	if err != nil || len(ids) != 2 {
		t.Fatalf("ReviewerIDs() = %v, %v", ids, err)
	}
	ids[0] = "mutated"

	again, _ := c.ReviewerIDs(context.Background(), 620, 2)
	if again[0] != "a" {
		t.Errorf("cached sample mutated: %v", again)
	}
	if n := src.count("ReviewerIDs"); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}

	// A different sample size is a different key.
	if ids, _ := c.ReviewerIDs(context.Background(), 620, 3); len(ids) != 3 {
		t.Errorf("ReviewerIDs(3) = %v", ids)
	}
	if n := src.count("ReviewerIDs"); n != 2 {
		t.Errorf("upstream calls = %d, want 2", n)
	}
}

func TestCachingFetcher_PassThrough(t *testing.T) {
	src := newFakeSource()
	c := newTestCache(src, nil)

	for i := 0; i < 2; i++ {
		if _, err := c.OwnedGames(context.Background(), gabenID, 0); err != nil {
			t.Fatal(err)
		}
		if _, err := c.ResolveProfile(context.Background(), gabenID); err != nil {
			t.Fatal(err)
		}
	}
	if src.count("OwnedGames") != 2 || src.count("ResolveProfile") != 2 {
		t.Errorf("calls = %v, want 2 each", src.calls)
	}
}

func TestCachingFetcher_Sweep(t *testing.T) {
	src := newFakeSource()
	src.games[620] = portal2()
	c := NewCachingFetcher(src, CacheOptions{Capacity: 10, TTL: time.Millisecond}, zerolog.Nop())

	if _, err := c.GameMetadata(context.Background(), 620); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if removed := c.Sweep(); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
}
