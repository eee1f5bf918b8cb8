package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Gateway applies the cache read/write policy on top of a raw Cache backend.
// A failing or missing backend never surfaces as an error: reads degrade to
// misses and writes are dropped.
type Gateway struct {
	backend Cache
}

// NewGateway wraps a Cache backend.
func NewGateway(backend Cache) *Gateway {
	return &Gateway{backend: backend}
}

// Read returns the cached value for key, or found=false on a miss or any
// backend failure.
func (g *Gateway) Read(ctx context.Context, key string) (string, bool) {
	value, found, err := g.backend.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("Cache read failed, treating as miss")
		return "", false
	}
	return value, found
}

// Write stores value under key. Empty values and values over MaxValueChars
// are skipped silently; the TTL is clamped to [1s, MaxTTL], falling back to
// DefaultTTL when the requested value is not positive.
func (g *Gateway) Write(ctx context.Context, key, value string, ttlSeconds int) {
	if value == "" || len(value) > MaxValueChars {
		return
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > MaxTTL {
		ttl = MaxTTL
	}

	if err := g.backend.Set(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Msg("Cache write failed, skipping")
	}
}
