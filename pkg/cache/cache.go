// Package cache stores rendered layout artifacts between CLI invocations.
//
// Settling a board is the expensive part of a headless render, so the render
// command caches the finished SVG or JSON bytes keyed by everything that
// determines the output: the dataset contents, the column spec, the seed,
// the tick count, and the format. A cache hit skips the simulation entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-level store with optional expiry.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RenderKey builds the cache key for a rendered artifact. Any change to the
// dataset, the spec, or the render parameters produces a different key.
func RenderKey(datasetHash, specHash string, seed uint64, ticks int, format string) string {
	return hashKey("render", datasetHash, specHash, seed, ticks, format)
}
