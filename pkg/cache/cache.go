// Package cache stores rendered image artifacts keyed by the inputs that
// produced them.
//
// Generation is deterministic, so a cache hit on (pattern, iterations, decay,
// format) is always safe to serve. Three backends are provided: a file cache
// for CLI use, a Redis cache for serve-mode deployments, and a null cache for
// tests and --no-cache runs.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves the value for key. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}
