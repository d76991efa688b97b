package usecase

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-tips-admin/content"
	"github.com/goliatone/go-tips-admin/invalidation"
	"github.com/goliatone/go-tips-admin/pkg/apperrors"
	"github.com/goliatone/go-tips-admin/pkg/logging"
)

// CategoryRequest carries the editable fields of a category.
type CategoryRequest struct {
	Name        string
	Description string
}

// Validate checks the name and description lengths.
func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(2, 100)),
		validation.Field(&r.Description, validation.RuneLength(0, 500)),
	)
}

// Categories runs category mutations.
type Categories struct {
	store Store[*content.Category]
	flow
}

// NewCategories returns the category use cases.
func NewCategories(store Store[*content.Category], inv Invalidator, logger logging.Logger) *Categories {
	return &Categories{store: store, flow: newFlow(inv, logger)}
}

// Create stores a new category and evicts the dashboard and category list.
func (c *Categories) Create(ctx context.Context, req CategoryRequest) (*content.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err, "category")
	}

	created, err := c.store.Create(ctx, &content.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, apperrors.Persistence(err, "create category")
	}

	return created, c.invalidate(ctx, invalidation.Event{
		Entity:   invalidation.EntityCategory,
		Mutation: invalidation.MutationCreate,
	}, created.ID)
}

// Update rewrites a category and evicts the dashboard, the category list and
// its detail view.
func (c *Categories) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*content.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err, "category")
	}

	category, err := load(ctx, c.store, "category", id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Description = req.Description

	updated, err := c.store.Update(ctx, category)
	if err != nil {
		return nil, apperrors.Persistence(err, "update category")
	}

	return updated, c.invalidate(ctx, invalidation.Event{
		Entity:      invalidation.EntityCategory,
		Mutation:    invalidation.MutationUpdate,
		CategoryIDs: []uuid.UUID{id},
	}, id)
}

// Delete soft deletes the category. Its tips are left in place.
func (c *Categories) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := load(ctx, c.store, "category", id)
	if err != nil {
		return err
	}

	if err := c.store.Delete(ctx, category); err != nil {
		return apperrors.Persistence(err, "delete category")
	}

	return c.invalidate(ctx, invalidation.Event{
		Entity:      invalidation.EntityCategory,
		Mutation:    invalidation.MutationDelete,
		CategoryIDs: []uuid.UUID{id},
	}, id)
}
