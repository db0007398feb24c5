package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Service is a key/value cache for JSON-serialisable values.
type Service interface {
	// Get unmarshals the cached value into dest, or returns ErrMiss.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores value with a TTL. A zero TTL means the backend default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
