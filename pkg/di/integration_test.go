package di

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-tips-admin/cache"
	"github.com/goliatone/go-tips-admin/content"
	"github.com/goliatone/go-tips-admin/pkg/apperrors"
	"github.com/goliatone/go-tips-admin/pkg/testsupport"
	"github.com/goliatone/go-tips-admin/usecase"
)

// flakyStore fails every Delete while failing is set.
type flakyStore struct {
	cache.CacheService

	mu      sync.Mutex
	failing bool
}

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = v
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	failing := f.failing
	f.mu.Unlock()

	if failing {
		return errors.New("store unreachable")
	}
	return f.CacheService.Delete(ctx, key)
}

type fixture struct {
	c     *Container
	store cache.CacheService
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testsupport.NewMemoryStore(t)
	return &fixture{c: newTestContainer(t, WithStore(store)), store: store, ctx: context.Background()}
}

func (f *fixture) category(t *testing.T, name string) *content.Category {
	t.Helper()

	c, err := f.c.Categories().Create(f.ctx, usecase.CategoryRequest{Name: name})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

func (f *fixture) tip(t *testing.T, categoryID uuid.UUID) *content.Tip {
	t.Helper()

	tip, err := f.c.Tips().Create(f.ctx, usecase.TipRequest{
		Title:      "Single-task",
		Content:    "Close every tab you do not need right now.",
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("create tip: %v", err)
	}
	return tip
}

// warm populates every view through the read path.
func (f *fixture) warm(t *testing.T, categoryIDs ...uuid.UUID) {
	t.Helper()

	r := f.c.Reader()
	if _, err := r.Dashboard(f.ctx); err != nil {
		t.Fatalf("warm dashboard: %v", err)
	}
	if _, err := r.CategoryList(f.ctx); err != nil {
		t.Fatalf("warm category list: %v", err)
	}
	for _, id := range categoryIDs {
		if _, err := r.Category(f.ctx, id); err != nil {
			t.Fatalf("warm category %s: %v", id, err)
		}
	}
}

func TestScenario_CreateCategory(t *testing.T) {
	f := newFixture(t)
	f.warm(t)

	created := f.category(t, "Productivity")

	testsupport.AssertEvicted(t, f.store, cache.Dashboard, cache.CategoryList)

	list, err := f.c.Reader().CategoryList(f.ctx)
	if err != nil {
		t.Fatalf("CategoryList() failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || list[0].Name != "Productivity" {
		t.Errorf("expected the new category in the list, got %+v", list)
	}

	d, err := f.c.Reader().Dashboard(f.ctx)
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if d.Categories != 1 {
		t.Errorf("expected 1 category on the dashboard, got %d", d.Categories)
	}
}

func TestScenario_CreateTip(t *testing.T) {
	f := newFixture(t)
	target := f.category(t, "Focus")
	other := f.category(t, "Health")
	f.warm(t, target.ID, other.ID)

	f.tip(t, target.ID)

	testsupport.AssertEvicted(t, f.store, cache.Category(target.ID), cache.CategoryList, cache.Dashboard)
	testsupport.AssertCached(t, f.store, cache.Category(other.ID))

	detail, err := f.c.Reader().Category(f.ctx, target.ID)
	if err != nil {
		t.Fatalf("Category() failed: %v", err)
	}
	if detail.TipCount != 1 {
		t.Errorf("expected fresh tip count 1, got %d", detail.TipCount)
	}
}

func TestScenario_MoveTip(t *testing.T) {
	f := newFixture(t)
	a := f.category(t, "Alpha")
	b := f.category(t, "Beta")
	tip := f.tip(t, a.ID)
	f.warm(t, a.ID, b.ID)

	if _, err := f.c.Tips().Update(f.ctx, tip.ID, usecase.TipRequest{
		Title:      tip.Title,
		Content:    tip.Content,
		CategoryID: b.ID,
	}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	testsupport.AssertEvicted(t, f.store,
		cache.Category(a.ID), cache.Category(b.ID), cache.CategoryList, cache.Dashboard)

	for id, want := range map[uuid.UUID]int{a.ID: 0, b.ID: 1} {
		detail, err := f.c.Reader().Category(f.ctx, id)
		if err != nil {
			t.Fatalf("Category() failed: %v", err)
		}
		if detail.TipCount != want {
			t.Errorf("category %s: expected %d tips, got %d", detail.Name, want, detail.TipCount)
		}
	}
}

func TestScenario_DeleteUser(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Focus")
	user, err := f.c.Users().Create(f.ctx, usecase.UserRequest{Email: "ada@example.com", Name: "Ada", Role: "admin"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	f.warm(t, cat.ID)

	if err := f.c.Users().Delete(f.ctx, user.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	testsupport.AssertEvicted(t, f.store, cache.Dashboard)
	testsupport.AssertCached(t, f.store, cache.CategoryList, cache.Category(cat.ID))

	d, err := f.c.Reader().Dashboard(f.ctx)
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if d.Users != 0 {
		t.Errorf("expected soft deleted user to be excluded, got %d", d.Users)
	}
}

func TestScenario_InvalidTipLeavesCacheUntouched(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Focus")
	f.warm(t, cat.ID)

	before, err := f.c.Reader().Category(f.ctx, cat.ID)
	if err != nil {
		t.Fatalf("Category() failed: %v", err)
	}

	_, err = f.c.Tips().Create(f.ctx, usecase.TipRequest{Title: "Hi", Content: "Long enough content", CategoryID: cat.ID})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	testsupport.AssertCached(t, f.store, cache.Dashboard, cache.CategoryList, cache.Category(cat.ID))

	after, err := f.c.Reader().Category(f.ctx, cat.ID)
	if err != nil {
		t.Fatalf("Category() failed: %v", err)
	}
	if after != before {
		t.Errorf("cached value changed: before %+v, after %+v", before, after)
	}
}

func TestScenario_DeleteCategory(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Obsolete")
	f.warm(t, cat.ID)

	if err := f.c.Categories().Delete(f.ctx, cat.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	testsupport.AssertEvicted(t, f.store, cache.Dashboard, cache.CategoryList, cache.Category(cat.ID))

	if _, err := f.c.Reader().Category(f.ctx, cat.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected soft deleted category to be not found, got %v", err)
	}
	if _, err := f.c.Tips().Create(f.ctx, usecase.TipRequest{
		Title:      "Too late",
		Content:    "This category is gone.",
		CategoryID: cat.ID,
	}); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found for soft deleted category, got %v", err)
	}
}

func TestScenario_StoreFailureAfterWrite(t *testing.T) {
	base := testsupport.NewMemoryStore(t)
	store := &flakyStore{CacheService: base}
	c := newTestContainer(t, WithStore(store))
	ctx := context.Background()

	if _, err := c.Reader().Dashboard(ctx); err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}

	store.setFailing(true)
	created, err := c.Categories().Create(ctx, usecase.CategoryRequest{Name: "Productivity"})
	store.setFailing(false)

	if !apperrors.IsCacheInvalidation(err) {
		t.Fatalf("expected cache invalidation error, got %v", err)
	}
	if created == nil {
		t.Fatal("expected the written category alongside the error")
	}

	// the write is durable even though the cache is stale
	count, err := c.DB().NewSelect().Model((*content.Category)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 persisted category, got %d", count)
	}
	testsupport.AssertCached(t, base, cache.Dashboard)
}

func TestInvalidateOperationsAreIdempotent(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Focus")
	f.warm(t, cat.ID)

	svc := f.c.Invalidator()
	for i := 0; i < 2; i++ {
		if err := svc.InvalidateDashboard(f.ctx); err != nil {
			t.Fatalf("InvalidateDashboard() #%d failed: %v", i+1, err)
		}
		if err := svc.InvalidateCategoryAndList(f.ctx, cat.ID); err != nil {
			t.Fatalf("InvalidateCategoryAndList() #%d failed: %v", i+1, err)
		}
		testsupport.AssertEvicted(t, f.store, cache.Dashboard, cache.CategoryList, cache.Category(cat.ID))
	}
}

func TestScenario_UnknownIDsAreNotFound(t *testing.T) {
	f := newFixture(t)
	f.warm(t)

	tests := []struct {
		name string
		run  func() error
	}{
		{"update missing category", func() error {
			_, err := f.c.Categories().Update(f.ctx, uuid.New(), usecase.CategoryRequest{Name: "Renamed"})
			return err
		}},
		{"tip in missing category", func() error {
			_, err := f.c.Tips().Create(f.ctx, usecase.TipRequest{
				Title:      "Orphaned",
				Content:    "No category holds this tip.",
				CategoryID: uuid.New(),
			})
			return err
		}},
		{"delete missing user", func() error {
			return f.c.Users().Delete(f.ctx, uuid.New())
		}},
		{"read missing category", func() error {
			_, err := f.c.Reader().Category(f.ctx, uuid.New())
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !apperrors.IsNotFound(err) {
				t.Fatalf("expected not found, got %v", err)
			}
			if apperrors.IsPersistence(err) {
				t.Errorf("not found must not be reported as a persistence failure: %v", err)
			}
		})
	}

	testsupport.AssertCached(t, f.store, cache.Dashboard, cache.CategoryList)
}
