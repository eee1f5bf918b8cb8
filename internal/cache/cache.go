// Package cache provides the response cache used to deduplicate identical
// formula invocations: a TTL key/value store behind a gateway that applies
// the read/write policy, plus the deterministic cache-key builder.
package cache

import (
	"context"
	"time"
)

// Cache is the raw key/value backend. The in-memory implementation is the
// default; the interface keeps the gateway testable and leaves room for an
// external backend.
type Cache interface {
	// Get returns the value for key, or found=false when absent/expired.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Close releases background resources.
	Close() error
}

// MaxValueChars is the size ceiling above which responses are never cached.
const MaxValueChars = 90000

// DefaultTTL is used when the resolved TTL is out of range.
const DefaultTTL = 3600 * time.Second

// MaxTTL caps every write.
const MaxTTL = 21600 * time.Second
