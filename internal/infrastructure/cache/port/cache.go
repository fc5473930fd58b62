package port

import (
	"context"
	"errors"
	"time"
)

// ErrMiss signals that a key is absent, as opposed to a transport failure.
var ErrMiss = errors.New("cache: miss")

// Cache is the key-value contract used for short-lived lookups such as the
// last-seen timestamps. Implementations must be safe for concurrent use.
type Cache interface {
	// Get fetches the value for key, returning ErrMiss when it is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. Zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes the given keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
