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

// TipRequest carries the editable fields of a tip.
type TipRequest struct {
	Title      string
	Content    string
	CategoryID uuid.UUID
}

// Validate checks the text lengths and that a category is set.
func (r TipRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(5, 200)),
		validation.Field(&r.Content, validation.Required, validation.RuneLength(10, 5000)),
		validation.Field(&r.CategoryID, validation.By(notNilUUID)),
	)
}

// Tips runs tip mutations. A tip may only be filed under a live category.
type Tips struct {
	store      Store[*content.Tip]
	categories Store[*content.Category]
	flow
}

// NewTips returns the tip use cases. categories is used to check that the
// target category exists.
func NewTips(store Store[*content.Tip], categories Store[*content.Category], inv Invalidator, logger logging.Logger) *Tips {
	return &Tips{store: store, categories: categories, flow: newFlow(inv, logger)}
}

// Create files a new tip under a live category.
func (t *Tips) Create(ctx context.Context, req TipRequest) (*content.Tip, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err, "tip")
	}

	if _, err := load(ctx, t.categories, "category", req.CategoryID); err != nil {
		return nil, err
	}

	created, err := t.store.Create(ctx, &content.Tip{
		ID:         uuid.New(),
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return nil, apperrors.Persistence(err, "create tip")
	}

	return created, t.invalidate(ctx, invalidation.Event{
		Entity:      invalidation.EntityTip,
		Mutation:    invalidation.MutationCreate,
		CategoryIDs: []uuid.UUID{created.CategoryID},
	}, created.ID)
}

// Update rewrites a tip. When the tip moves to another category both the old
// and the new category views are evicted.
func (t *Tips) Update(ctx context.Context, id uuid.UUID, req TipRequest) (*content.Tip, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err, "tip")
	}

	tip, err := load(ctx, t.store, "tip", id)
	if err != nil {
		return nil, err
	}

	if _, err := load(ctx, t.categories, "category", req.CategoryID); err != nil {
		return nil, err
	}

	previous := tip.CategoryID

	tip.Title = req.Title
	tip.Content = req.Content
	tip.CategoryID = req.CategoryID

	updated, err := t.store.Update(ctx, tip)
	if err != nil {
		return nil, apperrors.Persistence(err, "update tip")
	}

	return updated, t.invalidate(ctx, invalidation.Event{
		Entity:      invalidation.EntityTip,
		Mutation:    invalidation.MutationUpdate,
		CategoryIDs: []uuid.UUID{previous, req.CategoryID},
	}, id)
}

// Delete soft deletes the tip.
func (t *Tips) Delete(ctx context.Context, id uuid.UUID) error {
	tip, err := load(ctx, t.store, "tip", id)
	if err != nil {
		return err
	}

	if err := t.store.Delete(ctx, tip); err != nil {
		return apperrors.Persistence(err, "delete tip")
	}

	return t.invalidate(ctx, invalidation.Event{
		Entity:      invalidation.EntityTip,
		Mutation:    invalidation.MutationDelete,
		CategoryIDs: []uuid.UUID{tip.CategoryID},
	}, id)
}
