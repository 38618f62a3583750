// Package lock provides in-process mutual exclusion keyed by string.
//
// A Manager hands out one weighted semaphore per live key. Keys requested
// together are always taken in sorted order, so two callers locking the same
// set of keys in any order cannot deadlock.
package lock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Manager serializes work per key.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{entries: make(map[string]*entry)}
}

// Acquire blocks until every key is held or ctx is done. Duplicate keys are
// taken once. On failure nothing stays held. The returned release func is
// safe to call more than once.
func (m *Manager) Acquire(ctx context.Context, keys ...string) (release func(), err error) {
	keys = normalize(keys)
	held := make([]string, 0, len(keys))
	for _, key := range keys {
		if err = m.lock(ctx, key); err != nil {
			m.unlockAll(held)
			return nil, err
		}
		held = append(held, key)
	}
	var once sync.Once
	return func() {
		once.Do(func() { m.unlockAll(held) })
	}, nil
}

// Len returns the number of keys currently held or waited on.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) lock(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		m.drop(key, e)
		return fmt.Errorf("lock %s: %w", key, err)
	}
	return nil
}

func (m *Manager) unlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		m.mu.Lock()
		e := m.entries[keys[i]]
		m.mu.Unlock()
		e.sem.Release(1)
		m.drop(keys[i], e)
	}
}

func (m *Manager) drop(key string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}

func normalize(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}
