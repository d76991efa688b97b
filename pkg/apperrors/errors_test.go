package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestClassification(t *testing.T) {
	cause := errors.New("boom")
	id := uuid.New()

	tests := []struct {
		name              string
		err               error
		validation        bool
		notFound          bool
		infrastructure    bool
		persistence       bool
		cacheInvalidation bool
		textCode          string
	}{
		{
			name:       "validation",
			err:        Validation(cause, "invalid request"),
			validation: true,
			textCode:   TextCodeValidation,
		},
		{
			name:       "validation without cause",
			err:        Validation(nil, "invalid request"),
			validation: true,
			textCode:   TextCodeValidation,
		},
		{
			name:     "not found",
			err:      NotFound("category", id),
			notFound: true,
			textCode: TextCodeNotFound,
		},
		{
			name:           "persistence",
			err:            Persistence(cause, "create tip"),
			infrastructure: true,
			persistence:    true,
			textCode:       TextCodePersistence,
		},
		{
			name:              "cache invalidation",
			err:               CacheInvalidation(cause, "evict"),
			infrastructure:    true,
			cacheInvalidation: true,
			textCode:          TextCodeCacheInvalidation,
		},
		{
			name:              "wrapped with fmt",
			err:               fmt.Errorf("update tip: %w", CacheInvalidation(cause, "evict")),
			infrastructure:    true,
			cacheInvalidation: true,
			textCode:          TextCodeCacheInvalidation,
		},
		{
			name:              "joined",
			err:               errors.Join(errors.New("other"), CacheInvalidation(cause, "evict")),
			infrastructure:    true,
			cacheInvalidation: true,
			textCode:          TextCodeCacheInvalidation,
		},
		{
			name: "plain error",
			err:  cause,
		},
		{
			name: "nil",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.validation)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsInfrastructure(tt.err); got != tt.infrastructure {
				t.Errorf("IsInfrastructure() = %v, want %v", got, tt.infrastructure)
			}
			if got := IsPersistence(tt.err); got != tt.persistence {
				t.Errorf("IsPersistence() = %v, want %v", got, tt.persistence)
			}
			if got := IsCacheInvalidation(tt.err); got != tt.cacheInvalidation {
				t.Errorf("IsCacheInvalidation() = %v, want %v", got, tt.cacheInvalidation)
			}
			if got := TextCode(tt.err); got != tt.textCode {
				t.Errorf("TextCode() = %q, want %q", got, tt.textCode)
			}
		})
	}
}
