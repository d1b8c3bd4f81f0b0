// Package cache provides optional caching of provider completions so
// re-processing an identical document with identical settings does not
// re-bill the provider. The default deployment uses the no-op variant,
// which keeps every run fully session-scoped.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores raw provider completions keyed by an opaque prompt digest.
type Cache interface {
	// GetCompletion retrieves a cached completion. The second return is
	// false on a miss.
	GetCompletion(ctx context.Context, key string) (string, bool, error)

	// SetCompletion stores a completion with TTL.
	SetCompletion(ctx context.Context, key, completion string, ttl time.Duration) error

	// Close releases the cache connection.
	Close() error
}

// Key derives a cache key from the parts that determine a completion:
// provider kind, model, generation parameters, and the full prompt.
// Credentials must never be passed in. Parts are length-framed before
// hashing so no two part lists collide by concatenation.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		var n [8]byte
		l := len(p)
		for i := 0; i < 8; i++ {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
