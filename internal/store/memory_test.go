package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/seosiju/sheetgpt/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s := store.NewMemoryStore("")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetAndGetSecret(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetSecret(ctx, store.APIKeySecret, "sk-test"); err != nil {
		t.Fatalf("SetSecret() error = %v", err)
	}

	got, err := s.GetSecret(ctx, store.APIKeySecret)
	if err != nil {
		t.Fatalf("GetSecret() error = %v", err)
	}
	if got != "sk-test" {
		t.Errorf("GetSecret() = %q, want %q", got, "sk-test")
	}
}

func TestGetSecret_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSecret(context.Background(), "nope")
	var notFound *store.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("GetSecret() error = %v, want *store.ErrNotFound", err)
	}
}

func TestDeleteSecret(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SetSecret(ctx, store.APIKeySecret, "sk-test")
	if err := s.DeleteSecret(ctx, store.APIKeySecret); err != nil {
		t.Fatalf("DeleteSecret() error = %v", err)
	}
	if _, err := s.GetSecret(ctx, store.APIKeySecret); err == nil {
		t.Error("GetSecret() after delete returned nil error, want ErrNotFound")
	}

	// Deleting again is a no-op
	if err := s.DeleteSecret(ctx, store.APIKeySecret); err != nil {
		t.Errorf("DeleteSecret() second call error = %v", err)
	}
}

func TestCacheVersion_InitializedOnFirstRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v1, err := s.CacheVersion(ctx)
	if err != nil {
		t.Fatalf("CacheVersion() error = %v", err)
	}
	if v1 == "" {
		t.Fatal("CacheVersion() returned empty stamp")
	}

	v2, _ := s.CacheVersion(ctx)
	if v2 != v1 {
		t.Errorf("CacheVersion() second read = %q, want %q", v2, v1)
	}
}

func TestRotateCacheVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v1, _ := s.CacheVersion(ctx)
	v2, err := s.RotateCacheVersion(ctx)
	if err != nil {
		t.Fatalf("RotateCacheVersion() error = %v", err)
	}
	if v2 == v1 {
		t.Error("RotateCacheVersion() returned unchanged stamp")
	}

	got, _ := s.CacheVersion(ctx)
	if got != v2 {
		t.Errorf("CacheVersion() after rotate = %q, want %q", got, v2)
	}
}

func TestSnapshotPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1 := store.NewMemoryStore(dir)
	s1.SetSecret(ctx, store.APIKeySecret, "sk-persist")
	v1, _ := s1.CacheVersion(ctx)
	s1.Close()

	s2 := store.NewMemoryStore(dir)
	defer s2.Close()

	got, err := s2.GetSecret(ctx, store.APIKeySecret)
	if err != nil {
		t.Fatalf("GetSecret() after reload error = %v", err)
	}
	if got != "sk-persist" {
		t.Errorf("GetSecret() after reload = %q, want %q", got, "sk-persist")
	}

	v2, _ := s2.CacheVersion(ctx)
	if v2 != v1 {
		t.Errorf("CacheVersion() after reload = %q, want %q", v2, v1)
	}
}
