package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing. It is the default:
// every lookup misses, so no completion outlives its processing session.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetCompletion always reports a cache miss
func (c *NoOpCache) GetCompletion(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

// SetCompletion does nothing and always succeeds
func (c *NoOpCache) SetCompletion(ctx context.Context, key, completion string, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
