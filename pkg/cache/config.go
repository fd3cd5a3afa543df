package cache

import "time"

// MemoryOption configures the in-process cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	maxEntries      int
	cleanupInterval time.Duration
	defaultTTL      time.Duration
}

// WithMemoryMaxSize caps the number of entries before eviction kicks in.
func WithMemoryMaxSize(n int) MemoryOption {
	return func(c *memoryConfig) {
		c.maxEntries = n
	}
}

// WithMemoryCleanup sets how often expired entries are swept.
func WithMemoryCleanup(interval time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.cleanupInterval = interval
	}
}

// WithMemoryDefaultTTL sets the expiry applied when Set is called with a
// non-positive TTL.
func WithMemoryDefaultTTL(ttl time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.defaultTTL = ttl
	}
}

// RedisOption configures the Redis-backed cache.
type RedisOption func(*redisConfig)

type redisConfig struct {
	addr     string
	password string
	db       int
	poolSize int
	prefix   string
}

// WithRedisAddr sets the host:port to dial.
func WithRedisAddr(addr string) RedisOption {
	return func(c *redisConfig) {
		c.addr = addr
	}
}

// WithRedisPassword sets the auth password.
func WithRedisPassword(password string) RedisOption {
	return func(c *redisConfig) {
		c.password = password
	}
}

// WithRedisDB selects the logical database.
func WithRedisDB(db int) RedisOption {
	return func(c *redisConfig) {
		c.db = db
	}
}

// WithRedisPool sets the connection pool size.
func WithRedisPool(size int) RedisOption {
	return func(c *redisConfig) {
		c.poolSize = size
	}
}

// WithRedisPrefix namespaces every key so the instance can share a database.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *redisConfig) {
		c.prefix = prefix
	}
}

// LayeredOption configures the two-level cache.
type LayeredOption func(*layeredConfig)

type layeredConfig struct {
	memoryMaxSize int
}

// WithLayeredMemorySize sets the L1 entry cap.
func WithLayeredMemorySize(n int) LayeredOption {
	return func(c *layeredConfig) {
		c.memoryMaxSize = n
	}
}
