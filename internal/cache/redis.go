package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefix for cached completions
const completionKeyPrefix = "completion:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// GetCompletion retrieves a cached completion by key.
func (c *RedisCache) GetCompletion(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, completionKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil // Cache miss
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetCompletion stores a completion with TTL.
func (c *RedisCache) SetCompletion(ctx context.Context, key, completion string, ttl time.Duration) error {
	return c.client.Set(ctx, completionKeyPrefix+key, completion, ttl).Err()
}

// Close closes the cache connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
