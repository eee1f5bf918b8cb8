package cache_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seosiju/sheetgpt/internal/cache"
	"github.com/seosiju/sheetgpt/internal/options"
)

func TestKey_Deterministic(t *testing.T) {
	opts := options.Default()

	k1 := cache.Key("Summarize", "", "", opts, "", "v1")
	k2 := cache.Key("Summarize", "", "", opts, "", "v1")
	if k1 != k2 {
		t.Errorf("identical inputs produced different keys:\n%s\n%s", k1, k2)
	}
}

func TestKey_VersionBumpChangesKey(t *testing.T) {
	opts := options.Default()

	k1 := cache.Key("Summarize", "", "", opts, "", "v1")
	k2 := cache.Key("Summarize", "", "", opts, "", "v2")
	if k1 == k2 {
		t.Error("version bump did not change the key")
	}
}

func TestKey_AgentAndPlainPathsDiffer(t *testing.T) {
	opts := options.Default()

	plain := cache.Key("do it", "ctx", "Sheet1", opts, "", "v1")
	agent := cache.Key("do it", "ctx", "Sheet1", opts, "calc", "v1")
	if plain == agent {
		t.Error("toolkit presence did not change the key")
	}
}

func TestKey_OptionsAffectKey(t *testing.T) {
	a := options.Default()
	b := options.Default()
	b.Temperature = 0.1

	if cache.Key("p", "", "", a, "", "v") == cache.Key("p", "", "", b, "", "v") {
		t.Error("temperature change did not change the key")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, found, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || got != "v" {
		t.Errorf("Get() = (%q, %v), want (%q, true)", got, found, "v")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", "v", -time.Second)
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Error("Get() found an expired entry")
	}
}

func TestGateway_WriteSkipsEmptyAndOversized(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()
	g := cache.NewGateway(c)
	ctx := context.Background()

	g.Write(ctx, "empty", "", 60)
	g.Write(ctx, "huge", strings.Repeat("x", cache.MaxValueChars+1), 60)

	if c.Len() != 0 {
		t.Errorf("cache has %d entries, want 0", c.Len())
	}

	g.Write(ctx, "fits", strings.Repeat("x", cache.MaxValueChars), 60)
	if _, found := g.Read(ctx, "fits"); !found {
		t.Error("value exactly at the ceiling was not written")
	}
}

func TestGateway_InvalidTTLFallsBackToDefault(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()
	g := cache.NewGateway(c)
	ctx := context.Background()

	g.Write(ctx, "k", "v", 0)
	if _, found := g.Read(ctx, "k"); !found {
		t.Error("write with zero TTL was dropped, want default TTL applied")
	}
}

// failingCache always errors, to exercise the degrade-to-miss policy.
type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("backend down")
}
func (failingCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("backend down")
}
func (failingCache) Close() error { return nil }

func TestGateway_BackendFailureIsNonFatal(t *testing.T) {
	g := cache.NewGateway(failingCache{})
	ctx := context.Background()

	if _, found := g.Read(ctx, "k"); found {
		t.Error("Read() on failing backend reported a hit")
	}
	// Must not panic or surface an error.
	g.Write(ctx, "k", "v", 60)
}
