// Package store — in-memory Store implementation.
// Supports file-based snapshot persistence so the credential and the
// cache-version stamp survive restarts.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// snapshot is the JSON-serializable shape written to disk.
type snapshot struct {
	Secrets      map[string]string `json:"secrets"`
	CacheVersion string            `json:"cache_version"`
}

// MemoryStore implements Store with in-memory maps.
type MemoryStore struct {
	mu           sync.RWMutex
	secrets      map[string]string
	cacheVersion string

	// Persistence; empty snapshotPath means no persistence.
	snapshotPath string
	saveMu       sync.Mutex
}

// NewMemoryStore creates a new in-memory store. If dataDir is non-empty,
// state is persisted to a JSON file in that directory and reloaded on the
// next start.
func NewMemoryStore(dataDir string) *MemoryStore {
	m := &MemoryStore{
		secrets: make(map[string]string),
	}

	if dataDir != "" {
		m.snapshotPath = filepath.Join(dataDir, "settings.json")
		m.load()
	}

	return m
}

// GetSecret returns the named secret or ErrNotFound.
func (m *MemoryStore) GetSecret(ctx context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.secrets[name]
	if !ok {
		return "", &ErrNotFound{Name: name}
	}
	return v, nil
}

// SetSecret stores or overwrites the named secret.
func (m *MemoryStore) SetSecret(ctx context.Context, name, value string) error {
	m.mu.Lock()
	m.secrets[name] = value
	m.mu.Unlock()

	m.save()
	return nil
}

// DeleteSecret removes the named secret. Deleting an absent secret is a no-op.
func (m *MemoryStore) DeleteSecret(ctx context.Context, name string) error {
	m.mu.Lock()
	delete(m.secrets, name)
	m.mu.Unlock()

	m.save()
	return nil
}

// CacheVersion returns the current cache-version stamp, minting one on
// first use.
func (m *MemoryStore) CacheVersion(ctx context.Context) (string, error) {
	m.mu.RLock()
	v := m.cacheVersion
	m.mu.RUnlock()
	if v != "" {
		return v, nil
	}

	m.mu.Lock()
	if m.cacheVersion == "" {
		m.cacheVersion = uuid.New().String()
	}
	v = m.cacheVersion
	m.mu.Unlock()

	m.save()
	return v, nil
}

// RotateCacheVersion replaces the stamp with a fresh value.
func (m *MemoryStore) RotateCacheVersion(ctx context.Context) (string, error) {
	v := uuid.New().String()

	m.mu.Lock()
	m.cacheVersion = v
	m.mu.Unlock()

	m.save()

	log.Info().Str("version", v).Msg("Cache version rotated")
	return v, nil
}

// Close flushes the snapshot if persistence is enabled.
func (m *MemoryStore) Close() error {
	m.save()
	return nil
}

// ── Persistence ─────────────────────────────────────────────

func (m *MemoryStore) load() {
	data, err := os.ReadFile(m.snapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Failed to read settings snapshot")
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Failed to parse settings snapshot")
		return
	}

	m.mu.Lock()
	if snap.Secrets != nil {
		m.secrets = snap.Secrets
	}
	m.cacheVersion = snap.CacheVersion
	m.mu.Unlock()
}

func (m *MemoryStore) save() {
	if m.snapshotPath == "" {
		return
	}

	m.mu.RLock()
	snap := snapshot{
		Secrets:      make(map[string]string, len(m.secrets)),
		CacheVersion: m.cacheVersion,
	}
	for k, v := range m.secrets {
		snap.Secrets[k] = v
	}
	m.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal settings snapshot")
		return
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.snapshotPath), 0o700); err != nil {
		log.Warn().Err(err).Msg("Failed to create settings dir")
		return
	}
	tmp := m.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		log.Warn().Err(err).Msg("Failed to write settings snapshot")
		return
	}
	if err := os.Rename(tmp, m.snapshotPath); err != nil {
		log.Warn().Err(err).Msg("Failed to replace settings snapshot")
	}
}
