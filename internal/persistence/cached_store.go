package persistence

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultCacheExpiration      = 10 * time.Minute
	DefaultCacheCleanupInterval = 30 * time.Minute
)

// CachedStore wraps a ByteStore with an in-memory read-through cache.
// Writes go to the backing store first and refresh the cache only when they
// succeed; deletes evict. Keys is always answered by the backing store.
type CachedStore struct {
	next  ByteStore
	cache *gocache.Cache
	ttl   time.Duration
}

// Ensure CachedStore implements ByteStore.
var _ ByteStore = (*CachedStore)(nil)

// NewCachedStore wraps next. A ttl <= 0 uses DefaultCacheExpiration.
func NewCachedStore(next ByteStore, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	return &CachedStore{
		next:  next,
		cache: gocache.New(ttl, DefaultCacheCleanupInterval),
		ttl:   ttl,
	}
}

func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		if data, ok := v.([]byte); ok {
			return append([]byte(nil), data...), nil
		}
	}

	data, err := s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, append([]byte(nil), data...), s.ttl)
	return data, nil
}

func (s *CachedStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.next.Put(ctx, key, data); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, append([]byte(nil), data...), s.ttl)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return s.next.Delete(ctx, key)
}

func (s *CachedStore) Keys(ctx context.Context) ([]string, error) {
	return s.next.Keys(ctx)
}

// Flush drops every cached entry.
func (s *CachedStore) Flush() {
	s.cache.Flush()
}
