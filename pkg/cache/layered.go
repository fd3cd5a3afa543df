package cache

import (
	"context"
	"time"
)

// LayeredCache fronts a Redis cache with an in-process one. Reads hit memory
// first and backfill it from Redis; writes go through to both so replicas
// converge on the shared copy.
type LayeredCache struct {
	local  *MemoryCache
	shared *RedisCache
}

var _ Service = (*LayeredCache)(nil)

// NewLayeredCache creates a two-level cache over the given Redis client.
func NewLayeredCache(shared *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &layeredConfig{memoryMaxSize: 1000}
	for _, opt := range opts {
		opt(cfg)
	}
	return &LayeredCache{
		local:  NewMemoryCache(WithMemoryMaxSize(cfg.memoryMaxSize)),
		shared: shared,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := lc.shared.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = lc.local.Set(ctx, key, value, ttl)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest any) error {
	if err := lc.local.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.shared.Get(ctx, key, dest); err != nil {
		return err
	}
	if d, ok := dest.(*any); ok {
		_ = lc.local.Set(ctx, key, *d, 0)
	}
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.local.Delete(ctx, keys...)
	return lc.shared.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, key string) (bool, error) {
	if ok, _ := lc.local.Exists(ctx, key); ok {
		return true, nil
	}
	return lc.shared.Exists(ctx, key)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.local.Close()
	return lc.shared.Close()
}
