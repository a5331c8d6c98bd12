package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/billbook/backend/internal/domain/ledger"
	"github.com/google/uuid"
)

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

func (e cacheEntry[T]) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryBalanceCache implements ledger.Cache for a single process. Expired
// entries are dropped lazily on read.
type InMemoryBalanceCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]map[string]cacheEntry[ledger.Ledger]
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewInMemoryBalanceCache creates an empty cache
func NewInMemoryBalanceCache(ttl time.Duration) *InMemoryBalanceCache {
	return &InMemoryBalanceCache{
		entries: make(map[uuid.UUID]map[string]cacheEntry[ledger.Ledger]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetLedger returns the stored ledger itself, not a copy. Callers must
// not mutate it.
func (c *InMemoryBalanceCache) GetLedger(_ context.Context, userID uuid.UUID, key string) (*ledger.Ledger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID][key]
	if !ok {
		c.misses.Add(1)
		return nil, nil
	}
	if entry.isExpired(c.now()) {
		delete(c.entries[userID], key)
		c.misses.Add(1)
		return nil, nil
	}
	c.hits.Add(1)
	return entry.value, nil
}

// SetLedger stores l until the TTL elapses
func (c *InMemoryBalanceCache) SetLedger(_ context.Context, userID uuid.UUID, key string, l *ledger.Ledger) error {
	if l == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	userEntries, ok := c.entries[userID]
	if !ok {
		userEntries = make(map[string]cacheEntry[ledger.Ledger])
		c.entries[userID] = userEntries
	}
	userEntries[key] = cacheEntry[ledger.Ledger]{value: l, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// InvalidateUser drops the user's ledgers
func (c *InMemoryBalanceCache) InvalidateUser(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}

// Stats returns the hit and miss counters
func (c *InMemoryBalanceCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// NoopBalanceCache never stores anything. Used when caching is disabled.
type NoopBalanceCache struct{}

func (NoopBalanceCache) GetLedger(context.Context, uuid.UUID, string) (*ledger.Ledger, error) {
	return nil, nil
}

func (NoopBalanceCache) SetLedger(context.Context, uuid.UUID, string, *ledger.Ledger) error {
	return nil
}

func (NoopBalanceCache) InvalidateUser(context.Context, uuid.UUID) error {
	return nil
}

var (
	_ ledger.Cache = (*InMemoryBalanceCache)(nil)
	_ ledger.Cache = NoopBalanceCache{}
)
