package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// RedisCache stores entries in Redis, sharing the catalog cache across
// processes.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache returns a configured client and validates the connection
// with PING.
func NewRedisCache(addr, password string) (*RedisCache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("cache: redis addr is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

// Get returns a fresh entry if present; expiry is handled by Redis.
func (c *RedisCache) Get(ctx context.Context, key string, result any) (bool, error) {
	data, err := c.client.Get(ctx, "chargeplan:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, result); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores the value under key for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "chargeplan:"+key, data, ttl).Err()
}

// Close releases the client.
func (c *RedisCache) Close() error { return c.client.Close() }
