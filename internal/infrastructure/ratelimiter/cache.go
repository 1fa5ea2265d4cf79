package ratelimiter

import (
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// GetterSetter is the bucket-state backend. Values always carry an
// expiration so stale sources age out of the cache on their own.
type GetterSetter interface {
	Get(key string) (int, error)
	SetWithExpiration(key string, value int, expiration time.Duration) error
}
