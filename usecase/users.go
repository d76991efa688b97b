package usecase

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/goliatone/go-tips-admin/content"
	"github.com/goliatone/go-tips-admin/invalidation"
	"github.com/goliatone/go-tips-admin/pkg/apperrors"
	"github.com/goliatone/go-tips-admin/pkg/logging"
)

// UserRequest carries the editable fields of a user.
type UserRequest struct {
	Email string
	Name  string
	Role  string
}

// Validate checks the email format, name length and role.
func (r UserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Name, validation.Required, validation.RuneLength(2, 100)),
		validation.Field(&r.Role, validation.Required, validation.In(content.RoleAdmin, content.RoleEditor)),
	)
}

// Users runs user mutations. Every user write evicts the dashboard, including
// updates that only touch profile fields.
type Users struct {
	store Store[*content.User]
	flow
}

// NewUsers returns the user use cases.
func NewUsers(store Store[*content.User], inv Invalidator, logger logging.Logger) *Users {
	return &Users{store: store, flow: newFlow(inv, logger)}
}

// Create stores a new user. The email is stored lowercased.
func (u *Users) Create(ctx context.Context, req UserRequest) (*content.User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err, "user")
	}

	created, err := u.store.Create(ctx, &content.User{
		ID:    uuid.New(),
		Email: strings.ToLower(req.Email),
		Name:  req.Name,
		Role:  req.Role,
	})
	if err != nil {
		return nil, apperrors.Persistence(err, "create user")
	}

	return created, u.invalidate(ctx, invalidation.Event{
		Entity:   invalidation.EntityUser,
		Mutation: invalidation.MutationCreate,
	}, created.ID)
}

// Update rewrites a user.
func (u *Users) Update(ctx context.Context, id uuid.UUID, req UserRequest) (*content.User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err, "user")
	}

	user, err := load(ctx, u.store, "user", id)
	if err != nil {
		return nil, err
	}

	user.Email = strings.ToLower(req.Email)
	user.Name = req.Name
	user.Role = req.Role

	updated, err := u.store.Update(ctx, user)
	if err != nil {
		return nil, apperrors.Persistence(err, "update user")
	}

	return updated, u.invalidate(ctx, invalidation.Event{
		Entity:   invalidation.EntityUser,
		Mutation: invalidation.MutationUpdate,
	}, id)
}

// Delete soft deletes the user.
func (u *Users) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := load(ctx, u.store, "user", id)
	if err != nil {
		return err
	}

	if err := u.store.Delete(ctx, user); err != nil {
		return apperrors.Persistence(err, "delete user")
	}

	return u.invalidate(ctx, invalidation.Event{
		Entity:   invalidation.EntityUser,
		Mutation: invalidation.MutationDelete,
	}, id)
}
