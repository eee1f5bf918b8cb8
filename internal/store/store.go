// Package store provides the settings storage interface and implementations
// for SheetGPT. Dispatch code depends on the interface so tests can swap in
// a fresh in-memory store.
package store

import "context"

// Store persists the small amount of mutable state SheetGPT needs outside
// the response cache: the upstream API credential and the cache-version
// stamp embedded in every cache key.
type Store interface {
	SecretStore
	CacheVersionStore

	// Close releases all resources held by the store.
	Close() error
}

// SecretStore manages named secrets (currently just the API credential).
type SecretStore interface {
	GetSecret(ctx context.Context, name string) (string, error)
	SetSecret(ctx context.Context, name, value string) error
	DeleteSecret(ctx context.Context, name string) error
}

// CacheVersionStore manages the process-wide cache-version stamp. The stamp
// is read-or-initialized on first use; rotating it invalidates every
// previously written cache entry without touching the cache itself.
type CacheVersionStore interface {
	// CacheVersion returns the current stamp, initializing one if absent.
	CacheVersion(ctx context.Context) (string, error)

	// RotateCacheVersion writes a fresh stamp and returns it. The write is
	// atomic with respect to concurrent CacheVersion reads.
	RotateCacheVersion(ctx context.Context) (string, error)
}

// APIKeySecret is the secret name under which the chat-completion
// credential is stored.
const APIKeySecret = "openai_api_key"

// ErrNotFound is returned when a requested secret does not exist.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return "secret not found: " + e.Name
}
