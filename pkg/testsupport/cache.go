package testsupport

import (
	"context"
	"testing"

	"github.com/goliatone/go-tips-admin/cache"
)

// WarmedValue is the placeholder stored by Warm.
const WarmedValue = "warm"

// NewMemoryStore returns an in-process store with default settings.
func NewMemoryStore(t testing.TB) cache.CacheService {
	t.Helper()

	store, err := cache.NewCacheService(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create cache store: %v", err)
	}
	return store
}

// Warm stores a placeholder under the key of every resource.
func Warm(t testing.TB, store cache.CacheService, resources ...cache.Resource) {
	t.Helper()

	for _, r := range resources {
		if err := store.Set(context.Background(), cache.KeyFor(r), WarmedValue); err != nil {
			t.Fatalf("failed to warm %s: %v", r, err)
		}
	}
}

// AssertCached fails the test if any resource is missing from store.
func AssertCached(t testing.TB, store cache.CacheService, resources ...cache.Resource) {
	t.Helper()

	for _, r := range resources {
		if !isCached(t, store, r) {
			t.Errorf("expected %s to be cached", r)
		}
	}
}

// AssertEvicted fails the test if any resource is still present in store.
func AssertEvicted(t testing.TB, store cache.CacheService, resources ...cache.Resource) {
	t.Helper()

	for _, r := range resources {
		if isCached(t, store, r) {
			t.Errorf("expected %s to be evicted", r)
		}
	}
}

func isCached(t testing.TB, store cache.CacheService, r cache.Resource) bool {
	t.Helper()

	_, ok, err := store.Get(context.Background(), cache.KeyFor(r))
	if err != nil {
		t.Fatalf("failed to read %s: %v", r, err)
	}
	return ok
}
