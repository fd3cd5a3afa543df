// Package cache provides the read-through caches used for upstream market
// data responses: an in-process store for single instances and an optional
// Redis-backed layer for sharing macro data (treasury rates, index quotes)
// across replicas.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Service is the cache contract the market data client depends on. Values
// are decoded JSON payloads; implementations may serialize them however
// they like as long as Get hands back something JSON-equivalent.
type Service interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// Key builds a colon-separated cache key from a prefix and parts.
func Key(prefix string, parts ...any) string {
	key := prefix
	for _, p := range parts {
		key = fmt.Sprintf("%s:%v", key, p)
	}
	return key
}
