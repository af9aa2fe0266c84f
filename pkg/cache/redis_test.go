package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Redis tests run only when FATWA_TEST_REDIS_ADDR points at a server.
func redisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("FATWA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set FATWA_TEST_REDIS_ADDR to run Redis tests")
	}
	return addr
}

func TestNewRedisCacheEmptyAddress(t *testing.T) {
	c, err := NewRedisCache(context.Background(), RedisConfig{})
	if err == nil {
		t.Error("NewRedisCache should fail without an address")
	}
	if c != nil {
		t.Error("NewRedisCache should return nil on error")
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("NewRedisCache should fail when the ping fails")
	}
}

func TestRedisCache(t *testing.T) {
	addr := redisAddr(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	defer c.Clear(ctx)

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("missing key: hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "translations:en", []byte("{}"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "translations:en")
	if err != nil || !hit || string(data) != "{}" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "translations:en"); hit {
		t.Error("Clear should remove prefixed keys")
	}
}
