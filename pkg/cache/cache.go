// Package cache stores backend responses that rarely change.
//
// The client caches the translation catalogs and the source list so the chat
// screen can start without waiting on the backend. Answers from /ask are
// never cached.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON files under the user cache directory (default)
//   - [RedisCache]: a shared Redis instance, for teams running several clients
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Use [Open] to build one from configuration:
//
//	c, err := cache.Open(ctx, cache.Config{Backend: cache.BackendFile, Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss or an
	// expired entry; err is reserved for storage failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend string

	// Dir is the FileCache directory.
	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the cache described by cfg. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, redis or none)", cfg.Backend)
	}
}
