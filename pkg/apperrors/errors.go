// Package apperrors defines the error taxonomy shared by the mutation use cases
// and the cache invalidation layer.
//
// Three kinds are distinguished:
//
//   - validation: the request was malformed; nothing was written.
//   - not found: a referenced entity is missing or soft-deleted; nothing was written.
//   - infrastructure: persistence or cache store failure. A persistence failure
//     means nothing was written. A cache invalidation failure means the write
//     succeeded but cached views may be stale; it carries its own text code so
//     callers can tell the two apart.
package apperrors

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to every error produced by this package.
const (
	TextCodeValidation        = "VALIDATION_FAILED"
	TextCodeNotFound          = "NOT_FOUND"
	TextCodePersistence       = "PERSISTENCE_FAILED"
	TextCodeCacheInvalidation = "CACHE_INVALIDATION_FAILED"
)

// Validation wraps a request validation failure.
func Validation(err error, message string) error {
	if err == nil {
		return goerrors.New(message, goerrors.CategoryValidation).WithTextCode(TextCodeValidation)
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(TextCodeValidation)
}

// NotFound reports a missing or soft-deleted entity.
func NotFound(entity string, id fmt.Stringer) error {
	return goerrors.New(fmt.Sprintf("%s %s not found", entity, id), goerrors.CategoryNotFound).
		WithTextCode(TextCodeNotFound)
}

// Persistence wraps a repository failure.
func Persistence(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).WithTextCode(TextCodePersistence)
}

// CacheInvalidation wraps a cache store failure raised while evicting keys
// after a successful write.
func CacheInvalidation(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).WithTextCode(TextCodeCacheInvalidation)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return hasCategory(err, goerrors.CategoryValidation)
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return hasCategory(err, goerrors.CategoryNotFound)
}

// IsInfrastructure reports whether err is a persistence or cache store failure.
func IsInfrastructure(err error) bool {
	return hasCategory(err, goerrors.CategoryInternal)
}

// IsCacheInvalidation reports whether err is an eviction failure raised after a
// successful write.
func IsCacheInvalidation(err error) bool {
	return hasTextCode(err, TextCodeCacheInvalidation)
}

// IsPersistence reports whether err is a repository failure.
func IsPersistence(err error) bool {
	return hasTextCode(err, TextCodePersistence)
}

// TextCode returns the text code of the first taxonomy error in the chain.
func TextCode(err error) string {
	var e *goerrors.Error
	if errors.As(err, &e) {
		return e.TextCode
	}
	return ""
}

func hasCategory(err error, category goerrors.Category) bool {
	return walk(err, func(e *goerrors.Error) bool { return e.Category == category })
}

func hasTextCode(err error, code string) bool {
	return walk(err, func(e *goerrors.Error) bool { return e.TextCode == code })
}

// walk visits every *goerrors.Error reachable from err, including the branches
// of joined errors.
func walk(err error, match func(*goerrors.Error) bool) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(*goerrors.Error); ok && match(e) {
		return true
	}

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if walk(inner, match) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return walk(u.Unwrap(), match)
	}
	return false
}
