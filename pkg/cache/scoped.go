package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key before delegating to an inner cache.
// It lets several servers share one cache without their catalogs
// overwriting each other:
//
//	local := cache.NewScoped(c, "http://localhost:5001|")
//	local.Set(ctx, "translations:ar", data, ttl) // key "http://localhost:5001|translations:ar"
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScoped wraps inner with a key prefix. A nil inner becomes a NullCache.
func NewScoped(inner Cache, prefix string) *ScopedCache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Get retrieves a prefixed key.
func (s *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores a prefixed key.
func (s *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes a prefixed key.
func (s *ScopedCache) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner cache.
func (s *ScopedCache) Close() error {
	return s.inner.Close()
}

var _ Cache = (*ScopedCache)(nil)
