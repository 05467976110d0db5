// Package cache provides the TTL cache used in front of the station and
// charger catalog.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores JSON-encoded values with a time-to-live. Entries expire by
// time, never by writes, so cached reads are eventual, not transactional.
type Cache interface {
	// Get unmarshals the entry into result and reports whether a fresh
	// entry existed.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set stores the value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Close() error
}

// Config selects and configures the cache backend.
type Config struct {
	// Backend selects the cache type: "memory" or "redis".
	Backend string `json:"backend"`
	// TTLSeconds is the catalog entry lifetime.
	TTLSeconds int `json:"ttl_seconds"`
	// RedisAddr and RedisPassword configure the redis backend.
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.TTLSeconds <= 0 {
		c.TTLSeconds = 300
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory":
		return nil
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis backend")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
}

// TTL returns the configured lifetime as a duration.
func (c Config) TTL() time.Duration { return time.Duration(c.TTLSeconds) * time.Second }

// Open creates the configured backend.
func Open(cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	default:
		return nil, fmt.Errorf("unknown backend %s", cfg.Backend)
	}
}
