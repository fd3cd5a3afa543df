package cache

import (
	"sync"
	"time"
)

type entry struct {
	b        []byte
	expireAt time.Time
}

// TTLCache is the single-process BytesCache: verdicts live in memory until
// their TTL passes. Expired entries are dropped lazily on read.
type TTLCache struct {
	mu sync.RWMutex
	m  map[string]entry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry)}
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expireAt) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.b, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	buf := make([]byte, len(value))
	copy(buf, value)

	c.mu.Lock()
	c.m[key] = entry{b: buf, expireAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
