package invalidation

import (
	"fmt"

	"github.com/goliatone/go-tips-admin/cache"
)

// KeyError reports a failed eviction of one cache key.
type KeyError struct {
	Key      string
	Resource cache.Resource
	Err      error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("invalidate %s (%s): %v", e.Key, e.Resource.Kind, e.Err)
}

// Unwrap returns the store error.
func (e *KeyError) Unwrap() error {
	return e.Err
}
