// Package usecase implements the create, update and delete flows for
// categories, tips and users.
//
// Every flow follows the same sequence: validate the request, load the
// entities it depends on, persist, and only then dispatch the invalidation
// event for the mutation. A flow that stops before the write completes never
// touches the cache. A flow whose write succeeded but whose invalidation
// failed returns the written entity together with a cache invalidation error
// so the caller can report the write and flag the stale cache.
package usecase

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/goliatone/go-tips-admin/content"
	"github.com/goliatone/go-tips-admin/invalidation"
	"github.com/goliatone/go-tips-admin/pkg/apperrors"
	"github.com/goliatone/go-tips-admin/pkg/logging"
)

// Invalidator evicts cached views for a successful mutation.
type Invalidator interface {
	Dispatch(ctx context.Context, ev invalidation.Event) error
}

// Store is the subset of repository.Repository the flows need.
type Store[T any] interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error)
	Create(ctx context.Context, record T, criteria ...repository.InsertCriteria) (T, error)
	Update(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error)
	Delete(ctx context.Context, record T) error
}

type flow struct {
	invalidator Invalidator
	logger      logging.Logger
}

func newFlow(inv Invalidator, logger logging.Logger) flow {
	return flow{invalidator: inv, logger: logging.OrNop(logger)}
}

// invalidate runs after a durable write.
func (f flow) invalidate(ctx context.Context, ev invalidation.Event, id uuid.UUID) error {
	if err := f.invalidator.Dispatch(ctx, ev); err != nil {
		f.logger.Error("write succeeded but cache invalidation failed", logging.Fields{
			"event": ev.String(),
			"id":    id.String(),
			"error": err,
		})
		return err
	}
	return nil
}

func load[T any](ctx context.Context, store Store[T], entity string, id uuid.UUID) (T, error) {
	var zero T

	if id == uuid.Nil {
		return zero, apperrors.Validation(nil, entity+" id is required")
	}

	record, err := store.GetByID(ctx, id.String())
	if err != nil {
		if content.IsRecordNotFound(err) {
			return zero, apperrors.NotFound(entity, id)
		}
		return zero, apperrors.Persistence(err, "load "+entity)
	}
	return record, nil
}

func invalid(err error, entity string) error {
	return apperrors.Validation(err, "invalid "+entity+" request")
}

func notNilUUID(value any) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_nil_uuid", "must be a valid id")
	}
	return nil
}
