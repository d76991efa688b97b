// Package readmodel builds the cached admin read views. Every view is read
// through the store under the key cache.KeyFor gives its resource, the same
// key the invalidation layer evicts.
package readmodel

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/goliatone/go-tips-admin/cache"
	"github.com/goliatone/go-tips-admin/content"
	"github.com/goliatone/go-tips-admin/pkg/apperrors"
)

// Dashboard aggregates entity counts.
type Dashboard struct {
	Users      int `json:"users" msgpack:"users"`
	Categories int `json:"categories" msgpack:"categories"`
	Tips       int `json:"tips" msgpack:"tips"`
}

// CategorySummary is one row of the category list.
type CategorySummary struct {
	ID       uuid.UUID `json:"id" msgpack:"id"`
	Name     string    `json:"name" msgpack:"name"`
	TipCount int       `json:"tip_count" msgpack:"tip_count"`
}

// CategoryDetail is the single category view.
type CategoryDetail struct {
	ID          uuid.UUID `json:"id" msgpack:"id"`
	Name        string    `json:"name" msgpack:"name"`
	Description string    `json:"description" msgpack:"description"`
	TipCount    int       `json:"tip_count" msgpack:"tip_count"`
}

// Counter counts live rows.
type Counter interface {
	Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error)
}

// CategorySource is the category repository surface the reader needs.
type CategorySource interface {
	Counter
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*content.Category, error)
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]*content.Category, int, error)
}

// Reader serves the cached views.
type Reader struct {
	store      cache.CacheService
	categories CategorySource
	tips       Counter
	users      Counter
}

// NewReader returns a Reader that caches every view in store.
func NewReader(store cache.CacheService, categories CategorySource, tips, users Counter) *Reader {
	return &Reader{store: store, categories: categories, tips: tips, users: users}
}

// Dashboard returns the admin dashboard counts.
func (r *Reader) Dashboard(ctx context.Context) (Dashboard, error) {
	return cache.GetOrFetch(ctx, r.store, cache.KeyFor(cache.Dashboard), func(ctx context.Context) (Dashboard, error) {
		var d Dashboard
		var err error

		if d.Users, err = r.users.Count(ctx); err != nil {
			return Dashboard{}, apperrors.Persistence(err, "count users")
		}
		if d.Categories, err = r.categories.Count(ctx); err != nil {
			return Dashboard{}, apperrors.Persistence(err, "count categories")
		}
		if d.Tips, err = r.tips.Count(ctx); err != nil {
			return Dashboard{}, apperrors.Persistence(err, "count tips")
		}
		return d, nil
	})
}

// CategoryList returns every live category with its tip count, by name.
func (r *Reader) CategoryList(ctx context.Context) ([]CategorySummary, error) {
	return cache.GetOrFetch(ctx, r.store, cache.KeyFor(cache.CategoryList), func(ctx context.Context) ([]CategorySummary, error) {
		categories, _, err := r.categories.List(ctx, content.OrderByName())
		if err != nil {
			return nil, apperrors.Persistence(err, "list categories")
		}

		out := make([]CategorySummary, 0, len(categories))
		for _, c := range categories {
			n, err := r.tips.Count(ctx, content.InCategory(c.ID))
			if err != nil {
				return nil, apperrors.Persistence(err, fmt.Sprintf("count tips of %s", c.ID))
			}
			out = append(out, CategorySummary{ID: c.ID, Name: c.Name, TipCount: n})
		}
		return out, nil
	})
}

// Category returns one category with its tip count.
func (r *Reader) Category(ctx context.Context, id uuid.UUID) (CategoryDetail, error) {
	return cache.GetOrFetch(ctx, r.store, cache.KeyFor(cache.Category(id)), func(ctx context.Context) (CategoryDetail, error) {
		c, err := r.categories.GetByID(ctx, id.String())
		if err != nil {
			if content.IsRecordNotFound(err) {
				return CategoryDetail{}, apperrors.NotFound("category", id)
			}
			return CategoryDetail{}, apperrors.Persistence(err, "load category")
		}

		n, err := r.tips.Count(ctx, content.InCategory(id))
		if err != nil {
			return CategoryDetail{}, apperrors.Persistence(err, "count tips")
		}
		return CategoryDetail{ID: c.ID, Name: c.Name, Description: c.Description, TipCount: n}, nil
	})
}
