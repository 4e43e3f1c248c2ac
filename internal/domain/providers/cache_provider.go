package providers

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache key not found")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// SetIfAbsent stores value only when key does not exist and reports whether it was stored
	SetIfAbsent(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error)

	// Increment adds one to the counter at key, starting a fresh window of length ttl
	// when the key is new, and returns the new count and the remaining window.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error
}
