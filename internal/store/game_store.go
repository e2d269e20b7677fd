// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/steamwaiter/internal/metrics"
	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// Key prefixes for BadgerDB storage
const gameKeyPrefix = "game:"

var (
	// ErrNotFound is returned when no live record exists for an app id.
	ErrNotFound = errors.New("game not in store")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("game store closed")
)

// Options configures a GameStore.
type Options struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory (tests).
	InMemory bool

	// TTL is how long a stored record stays readable.
	TTL time.Duration
}

// record is the persisted form of a game's metadata.
type record struct {
	Game      *recommend.Game `json:"game"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// GameStore persists store-page metadata in BadgerDB so repeated crawls and
// restarts do not refetch every game. Each entry expires after the TTL.
type GameStore struct {
	mu     sync.RWMutex
	db     *badger.DB
	ttl    time.Duration
	closed bool
}

// Open opens (or creates) the store.
func Open(opts Options) (*GameStore, error) {
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("store ttl must be positive, got %v", opts.TTL)
	}
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("store path is required")
	}

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	// Reduce logging verbosity
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &GameStore{db: db, ttl: opts.TTL}, nil
}

func gameKey(id recommend.AppID) []byte {
	return []byte(gameKeyPrefix + strconv.Itoa(int(id)))
}

// Get returns the stored metadata for id, or ErrNotFound.
func (s *GameStore) Get(ctx context.Context, id recommend.AppID) (*recommend.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get game %d: %w", id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, ErrNotFound) {
		metrics.RecordStoreOperation("get", nil)
		return nil, err
	}
	metrics.RecordStoreOperation("get", err)
	if err != nil {
		return nil, err
	}
	if rec.Game == nil {
		return nil, ErrNotFound
	}
	return rec.Game, nil
}

// Put stores g with the store TTL, replacing any previous record.
func (s *GameStore) Put(ctx context.Context, g *recommend.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(record{Game: g.Clone(), FetchedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal game %d: %w", g.ID, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(gameKey(g.ID), data).WithTTL(s.ttl))
	})
	metrics.RecordStoreOperation("put", err)
	if err != nil {
		return fmt.Errorf("put game %d: %w", g.ID, err)
	}
	return nil
}

// Delete removes the record for id. Deleting a missing id is not an error.
func (s *GameStore) Delete(ctx context.Context, id recommend.AppID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(gameKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete game %d: %w", id, err)
		}
		return nil
	})
}

// Count returns the number of live game records.
func (s *GameStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(gameKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// RunGC runs value log garbage collection until nothing is left to rewrite
// and returns the number of rewritten files. In-memory stores have no value
// log and return 0.
func (s *GameStore) RunGC(ratio float64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.db.Opts().InMemory {
		return 0, nil
	}

	rewrites := 0
	for {
		err := s.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			metrics.StoreGCRuns.WithLabelValues("error").Inc()
			return rewrites, fmt.Errorf("run GC: %w", err)
		}
		rewrites++
	}

	result := "nothing"
	if rewrites > 0 {
		result = "rewritten"
	}
	metrics.StoreGCRuns.WithLabelValues(result).Inc()
	return rewrites, nil
}

// Close closes the underlying database. It is safe to call more than once.
func (s *GameStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
