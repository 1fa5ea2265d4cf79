// Package kv wraps the shared key-value store behind the narrow set of
// operations the room subsystem needs, so the core logic can run against
// Redis in production and an in-memory fake in tests.
package kv

import (
	"context"
	"time"
)

// Store is the contract consumed by the repositories. Every operation is
// atomic per call; sequences of calls are not atomic as a whole.
type Store interface {
	// HSet writes fields into a hash at key, creating it if absent.
	HSet(ctx context.Context, key string, fields map[string]any) error

	// Expire sets the key's time-to-live. Setting an expiry on an absent
	// key is a no-op.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// TTL reports the key's remaining time-to-live. Absent, expired, and
	// non-expiring keys all report zero; callers treat zero as "gone".
	TTL(ctx context.Context, key string) (time.Duration, error)

	Exists(ctx context.Context, key string) (bool, error)

	// RPush atomically appends values to the end of the list at key.
	RPush(ctx context.Context, key string, values ...[]byte) error

	// LRange returns the full list at key in insertion order. An absent
	// key yields an empty slice, not an error.
	LRange(ctx context.Context, key string) ([][]byte, error)

	// Del removes the given keys. Absent keys are skipped silently.
	Del(ctx context.Context, keys ...string) error

	Close() error
}
