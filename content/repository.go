package content

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-tips-admin/pkg/apperrors"
)

// NewCategoryRepository returns the bun backed category repository.
func NewCategoryRepository(db *bun.DB) repository.Repository[*Category] {
	return repository.NewRepository[*Category](db, repository.ModelHandlers[*Category]{
		NewRecord:     func() *Category { return &Category{} },
		GetID:         func(c *Category) uuid.UUID { return c.ID },
		SetID:         func(c *Category, id uuid.UUID) { c.ID = id },
		GetIdentifier: func() string { return "name" },
	})
}

// NewTipRepository returns the bun backed tip repository.
func NewTipRepository(db *bun.DB) repository.Repository[*Tip] {
	return repository.NewRepository[*Tip](db, repository.ModelHandlers[*Tip]{
		NewRecord:     func() *Tip { return &Tip{} },
		GetID:         func(t *Tip) uuid.UUID { return t.ID },
		SetID:         func(t *Tip, id uuid.UUID) { t.ID = id },
		GetIdentifier: func() string { return "title" },
	})
}

// NewUserRepository returns the bun backed user repository.
func NewUserRepository(db *bun.DB) repository.Repository[*User] {
	return repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord:     func() *User { return &User{} },
		GetID:         func(u *User) uuid.UUID { return u.ID },
		SetID:         func(u *User, id uuid.UUID) { u.ID = id },
		GetIdentifier: func() string { return "email" },
	})
}

// InCategory restricts a tip query to one category.
func InCategory(id uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.category_id = ?", id)
	}
}

// OrderByName sorts a category query by name.
func OrderByName() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("name ASC")
	}
}

// IsRecordNotFound reports whether err means the row is missing or soft
// deleted.
func IsRecordNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || apperrors.IsNotFound(err)
}
