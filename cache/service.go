package cache

import (
	"context"
	"errors"
)

// ErrInvalidResultType is returned by GetOrFetch when the store hands back a value
// that cannot be converted to the requested type.
var ErrInvalidResultType = errors.New("cache: invalid result type")

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Remover is the only capability the invalidation layer holds over the cache.
// Delete must be idempotent: removing an absent key is not an error.
type Remover interface {
	Delete(ctx context.Context, key string) error
}

// CacheService is the process-wide key/value store shared by the read path and
// the invalidation path.
type CacheService interface {
	Remover

	// GetOrFetch returns the cached value for key, or calls fetchFn (a FetchFn[T])
	// on a miss and stores its result.
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)

	// Get returns the raw stored value and whether the key is present.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores value under key using the store's default TTL.
	Set(ctx context.Context, key string, value any) error
}

// GetOrFetch is a type-safe wrapper function that provides generic support for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}

	// a nil interface is the zero value for interface and pointer T
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}
