package cache

import (
	"context"
	"time"
)

// Cache is the contract for the caching layer. Keeping it behind an
// interface lets tests swap in an in-memory implementation.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns (true, nil) on a hit; (false, nil) on a miss, in which
	// case dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes all keys matching a glob pattern, e.g. "vocab:*".
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
