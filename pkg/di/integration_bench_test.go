package di

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-tips-admin/cache"
	"github.com/goliatone/go-tips-admin/invalidation"
	"github.com/goliatone/go-tips-admin/pkg/testsupport"
	"github.com/goliatone/go-tips-admin/usecase"
)

// TestConcurrentMutations runs tip writes from many goroutines and checks that
// every affected view ends up evicted once they all return.
func TestConcurrentMutations(t *testing.T) {
	f := newFixture(t)

	const numCategories = 4
	categories := make([]uuid.UUID, numCategories)
	for i := range categories {
		categories[i] = f.category(t, fmt.Sprintf("Category %d", i)).ID
	}
	f.warm(t, categories...)

	const numGoroutines = 8
	const tipsPerGoroutine = 5

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines*tipsPerGoroutine)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < tipsPerGoroutine; j++ {
				_, err := f.c.Tips().Create(f.ctx, usecase.TipRequest{
					Title:      fmt.Sprintf("Tip %d-%d", worker, j),
					Content:    "Concurrent content body.",
					CategoryID: categories[(worker+j)%numCategories],
				})
				if err != nil {
					errs <- err
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent create failed: %v", err)
	}

	for _, id := range categories {
		testsupport.AssertEvicted(t, f.store, cache.Category(id))
	}
	testsupport.AssertEvicted(t, f.store, cache.Dashboard, cache.CategoryList)

	d, err := f.c.Reader().Dashboard(f.ctx)
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if d.Tips != numGoroutines*tipsPerGoroutine {
		t.Errorf("expected %d tips, got %d", numGoroutines*tipsPerGoroutine, d.Tips)
	}
}

func BenchmarkDispatchTipMove(b *testing.B) {
	store := testsupport.NewMemoryStore(b)
	svc, err := invalidation.NewService(store)
	if err != nil {
		b.Fatalf("NewService() failed: %v", err)
	}

	ev := invalidation.Event{
		Entity:      invalidation.EntityTip,
		Mutation:    invalidation.MutationUpdate,
		CategoryIDs: []uuid.UUID{uuid.New(), uuid.New()},
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := svc.Dispatch(ctx, ev); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReaderDashboard(b *testing.B) {
	c := newTestContainer(b)
	ctx := context.Background()

	b.Run("cached", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := c.Reader().Dashboard(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("evicted", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if err := c.Invalidator().InvalidateDashboard(ctx); err != nil {
				b.Fatal(err)
			}
			if _, err := c.Reader().Dashboard(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})
}
