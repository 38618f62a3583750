package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/idempotency"
)

// sweepEvery bounds how often Reserve scans for expired entries.
const sweepEvery = time.Minute

// MemoryIdempotencyStore keeps idempotency records in process memory.
// An expired entry is dropped when its key is looked up; the rest are swept
// at most once per sweepEvery.
type MemoryIdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]*cacheEntry
	now       func() time.Time
	lastSweep time.Time
}

type cacheEntry struct {
	record    *idempotency.Record // nil while reserved
	expiresAt time.Time
}

// NewMemoryIdempotencyStore creates a new in-memory store.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

func (c *MemoryIdempotencyStore) Reserve(
	ctx context.Context,
	key string,
	lockTTL time.Duration,
) (*idempotency.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= sweepEvery {
		c.sweep(now)
	}
	if entry, ok := c.entries[key]; ok && !now.Before(entry.expiresAt) {
		delete(c.entries, key)
	}
	if entry, ok := c.entries[key]; ok {
		if entry.record == nil {
			return nil, idempotency.ErrInFlight
		}
		rec := *entry.record
		return &rec, nil
	}
	c.entries[key] = &cacheEntry{expiresAt: now.Add(lockTTL)}
	return nil, nil
}

func (c *MemoryIdempotencyStore) Save(
	ctx context.Context,
	key string,
	rec *idempotency.Record,
	ttl time.Duration,
) error {
	if err := ctx.Err(); err != nil {
		return domain.Unavailable(err)
	}
	stored := *rec
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{record: &stored, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryIdempotencyStore) Release(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok && entry.record == nil {
		delete(c.entries, key)
	}
	return nil
}

// Len reports the number of live entries.
func (c *MemoryIdempotencyStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep(c.now())
	return len(c.entries)
}

func (c *MemoryIdempotencyStore) sweep(now time.Time) {
	c.lastSweep = now
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ idempotency.Store = (*MemoryIdempotencyStore)(nil)
