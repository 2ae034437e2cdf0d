// Package cache provides the TTL result cache behind the top-traders
// orchestrator. The default backend is an in-process map; a Redis-backed
// implementation lives in the redis subpackage.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Hauntedhams/Moonfeed-backend-sub000/internal/domain"
)

// Cache stores completed top-traders results keyed by
// "chainId:tokenAddress" (lowercased by the caller). Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the cached result for key, or ok=false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (res *domain.Result, ok bool, err error)
	// Set stores the result under key with the cache's TTL.
	Set(ctx context.Context, key string, res *domain.Result) error
}

// Memory is an in-process Cache with lazy TTL eviction: expired entries are
// dropped on the next lookup rather than by a background sweeper.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	fetchedAt time.Time
	res       *domain.Result
}

// NewMemory creates an in-memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) (*domain.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(entry.fetchedAt) > m.ttl {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.res, true, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, res *domain.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{fetchedAt: m.now(), res: res}
	return nil
}

// Len returns the number of entries currently held, including any not yet
// lazily evicted.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
