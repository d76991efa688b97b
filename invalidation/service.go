package invalidation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-tips-admin/cache"
	"github.com/goliatone/go-tips-admin/pkg/apperrors"
	"github.com/goliatone/go-tips-admin/pkg/logging"
)

// DefaultRemoveTimeout bounds a single key eviction.
const DefaultRemoveTimeout = 2 * time.Second

// ErrNilStore is returned by NewService when no store is given.
var ErrNilStore = errors.New("invalidation: store is required")

// Service evicts cached read views. It only ever removes keys; it never reads
// or populates the store.
type Service struct {
	store   cache.Remover
	matrix  Matrix
	logger  logging.Logger
	timeout time.Duration
	mp      metric.MeterProvider
	metrics *metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Failed evictions are logged at Error.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// WithMeterProvider enables the eviction counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.mp = mp }
}

// WithRemoveTimeout bounds each key eviction. Zero or negative disables the
// bound.
func WithRemoveTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithMatrix replaces the dependency matrix consulted by Dispatch.
func WithMatrix(m Matrix) Option {
	return func(s *Service) { s.matrix = m }
}

// NewService builds a Service on top of store.
func NewService(store cache.Remover, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	s := &Service{
		store:   store,
		matrix:  DefaultMatrix(),
		logger:  logging.NopLogger{},
		timeout: DefaultRemoveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	m, err := newMetrics(s.mp)
	if err != nil {
		return nil, err
	}
	s.metrics = m

	return s, nil
}

// InvalidateDashboard evicts the admin dashboard.
func (s *Service) InvalidateDashboard(ctx context.Context) error {
	return s.evict(ctx, cache.Dashboard)
}

// InvalidateCategoryList evicts the category list.
func (s *Service) InvalidateCategoryList(ctx context.Context) error {
	return s.evict(ctx, cache.CategoryList)
}

// InvalidateCategory evicts the detail view of one category.
func (s *Service) InvalidateCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.CacheInvalidation(ErrNilCategoryID, "invalidate category")
	}
	return s.evict(ctx, cache.Category(id))
}

// InvalidateCategoryAndList evicts one category detail view and the category
// list. Both evictions are attempted even if one fails.
func (s *Service) InvalidateCategoryAndList(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.CacheInvalidation(ErrNilCategoryID, "invalidate category and list")
	}
	return s.evict(ctx, cache.Category(id), cache.CategoryList)
}

// evict removes every resource concurrently and waits for all of them. The
// group has no shared context, so one failed key never cancels the others,
// and every failure is joined so none is hidden behind another.
func (s *Service) evict(ctx context.Context, resources ...cache.Resource) error {
	errs := make([]error, len(resources))

	var g errgroup.Group
	for i, r := range resources {
		g.Go(func() error {
			errs[i] = s.remove(ctx, r)
			return errs[i]
		})
	}
	if g.Wait() == nil {
		return nil
	}

	return apperrors.CacheInvalidation(errors.Join(errs...), "cache invalidation failed")
}

func (s *Service) remove(ctx context.Context, r cache.Resource) error {
	key := cache.KeyFor(r)

	err := s.deleteWithTimeout(ctx, key)
	s.metrics.record(ctx, r, err)

	if err != nil {
		s.logger.Error("cache invalidation failed", logging.Fields{
			"key":      key,
			"resource": r.Kind.String(),
			"error":    err,
		})
		return &KeyError{Key: key, Resource: r, Err: err}
	}

	s.logger.Debug("cache key evicted", logging.Fields{
		"key":      key,
		"resource": r.Kind.String(),
	})
	return nil
}

// deleteWithTimeout returns once the store answers or the deadline passes,
// whichever is first, so a store that ignores its context cannot stall the
// caller.
//
// The write has already been committed when this runs. Cancelling the caller
// context must not skip the eviction, so only the per-key timeout bounds it.
func (s *Service) deleteWithTimeout(ctx context.Context, key string) error {
	ctx = context.WithoutCancel(ctx)
	if s.timeout <= 0 {
		return s.store.Delete(ctx, key)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.store.Delete(ctx, key) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
