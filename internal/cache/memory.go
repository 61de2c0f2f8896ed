package cache

import (
	"context"
	"sync"
	"time"

	"salesflow/internal/core"
)

// MemoryCache is a process-local CatalogCache for tests and offline runs.
type MemoryCache struct {
	mu      sync.Mutex
	catalog *core.Catalog
	expires time.Time
	ttl     time.Duration
}

// NewMemoryCache creates an in-memory cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryCache{ttl: ttl}
}

func (m *MemoryCache) Get(ctx context.Context) (*core.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.catalog == nil || time.Now().After(m.expires) {
		return nil, ErrCacheMiss
	}
	return m.catalog, nil
}

func (m *MemoryCache) Set(ctx context.Context, catalog *core.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = catalog
	m.expires = time.Now().Add(m.ttl)
	return nil
}

func (m *MemoryCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = nil
	return nil
}
