// Package cache provides the shared key/value store and the registry of cache
// keys for the admin read views.
//
// # Overview
//
// This package exports:
//
//   - CacheService: the process-wide store used by the read path (GetOrFetch,
//     Get, Set) and by the invalidation path (Delete, through Remover)
//   - Resource and KeyFor: the single mapping from a cached view to its key
//
// Two store backends are available through NewCacheService: an in-process
// sturdyc cache (BackendMemory, the default) and Redis (BackendRedis).
//
// # Keys
//
// Three views are cached:
//
//	Dashboard        -> "AdminDashboard"
//	CategoryList     -> "CategoryList"
//	Category(id)     -> "Category_" + id.String()
//
// Code that populates a view and code that evicts it must both derive the key
// from KeyFor. Spelling a key literal anywhere else lets the two paths drift
// apart, and an eviction that misses its key leaves readers on stale data
// until the TTL expires.
//
// # Basic Usage
//
//	store, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	detail, err := cache.GetOrFetch(ctx, store, cache.KeyFor(cache.Category(id)),
//		func(ctx context.Context) (CategoryDetail, error) {
//			return loadCategoryDetail(ctx, id)
//		})
//
// # Removal Contract
//
// Delete is idempotent: removing an absent key is not an error. A store that
// cannot be reached returns an error instead of pretending the key is gone.
// The in-process backend never fails; the Redis backend reports transport
// errors and timeouts.
package cache
