// Package cache stores parsed documents and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are built by a [Keyer] so that every option that changes the output
// also changes the key:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(input), cache.ArtifactKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any held resources.
	Close() error
}
