package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-tips-admin/cache"
	"github.com/goliatone/go-tips-admin/content"
	"github.com/goliatone/go-tips-admin/internal/config"
	"github.com/goliatone/go-tips-admin/internal/storage"
	"github.com/goliatone/go-tips-admin/internal/telemetry"
	"github.com/goliatone/go-tips-admin/invalidation"
	"github.com/goliatone/go-tips-admin/pkg/logging"
	"github.com/goliatone/go-tips-admin/readmodel"
	"github.com/goliatone/go-tips-admin/usecase"
)

// Container wires the database, the cache store, the invalidation service,
// the mutation use cases and the read model. All of them share one store
// instance so reads and evictions agree on the cached state.
type Container struct {
	config    config.Config
	logger    logging.Logger
	db        *bun.DB
	store     cache.CacheService
	telemetry *telemetry.Provider

	invalidator *invalidation.Service
	categories  *usecase.Categories
	tips        *usecase.Tips
	users       *usecase.Users
	reader      *readmodel.Reader

	closers []func(context.Context) error
}

// Option overrides a dependency the container would otherwise build from
// config.
type Option func(*Container)

// WithLogger replaces the logger built from the log section.
func WithLogger(l logging.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithStore replaces the store built from the cache section. The container
// does not close an injected store.
func WithStore(s cache.CacheService) Option {
	return func(c *Container) { c.store = s }
}

// NewContainer builds every component described by cfg. The schema is
// created if it does not exist.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("di: invalid config: %w", err)
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.init(ctx); err != nil {
		_ = c.Close(context.Background())
		return nil, err
	}
	return c, nil
}

// NewContainerWithDefaults builds a container from defaults and TIPS_
// environment overrides.
func NewContainerWithDefaults(ctx context.Context) (*Container, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return NewContainer(ctx, *cfg)
}

func (c *Container) init(ctx context.Context) error {
	if c.logger == nil {
		logger, sync, err := logging.New(c.config.LoggingConfig())
		if err != nil {
			return err
		}
		c.logger = logger
		c.closers = append(c.closers, func(context.Context) error {
			// stderr sync is not supported on every platform
			_ = sync()
			return nil
		})
	}

	db, err := storage.Open(ctx, c.config.StorageConfig())
	if err != nil {
		return err
	}
	c.db = db
	c.closers = append(c.closers, func(context.Context) error { return db.Close() })

	if err := storage.CreateSchema(ctx, db); err != nil {
		return err
	}

	if c.store == nil {
		store, err := cache.NewCacheService(c.config.StoreConfig())
		if err != nil {
			return fmt.Errorf("di: cache store: %w", err)
		}
		c.store = store
		if closer, ok := store.(interface{ Close() error }); ok {
			c.closers = append(c.closers, func(context.Context) error { return closer.Close() })
		}
	}

	// a remote store that cannot be reached would fail every eviction
	if pinger, ok := c.store.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("di: cache store unreachable: %w", err)
		}
	}

	tp, err := telemetry.New(c.config.Metrics.Exporter, telemetry.Options{})
	if err != nil {
		return err
	}
	c.telemetry = tp
	c.closers = append(c.closers, tp.Shutdown)

	c.invalidator, err = invalidation.NewService(c.store,
		invalidation.WithLogger(c.logger),
		invalidation.WithMeterProvider(tp.MeterProvider),
		invalidation.WithRemoveTimeout(c.config.Cache.RemoveTimeout),
	)
	if err != nil {
		return fmt.Errorf("di: invalidation service: %w", err)
	}

	categoryRepo := content.NewCategoryRepository(db)
	tipRepo := content.NewTipRepository(db)
	userRepo := content.NewUserRepository(db)

	c.categories = usecase.NewCategories(categoryRepo, c.invalidator, c.logger)
	c.tips = usecase.NewTips(tipRepo, categoryRepo, c.invalidator, c.logger)
	c.users = usecase.NewUsers(userRepo, c.invalidator, c.logger)
	c.reader = readmodel.NewReader(c.store, categoryRepo, tipRepo, userRepo)

	c.logger.Info("container ready", logging.Fields{
		"database": c.config.Database.Driver,
		"cache":    c.config.Cache.Backend,
		"metrics":  c.config.Metrics.Exporter,
	})
	return nil
}

// Close releases resources in reverse creation order.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config { return c.config }

// Logger returns the application logger.
func (c *Container) Logger() logging.Logger { return c.logger }

// DB returns the database handle.
func (c *Container) DB() *bun.DB { return c.db }

// CacheService returns the shared store.
func (c *Container) CacheService() cache.CacheService { return c.store }

// Telemetry returns the metrics provider.
func (c *Container) Telemetry() *telemetry.Provider { return c.telemetry }

// Invalidator returns the cache invalidation service.
func (c *Container) Invalidator() *invalidation.Service { return c.invalidator }

// Categories returns the category use cases.
func (c *Container) Categories() *usecase.Categories { return c.categories }

// Tips returns the tip use cases.
func (c *Container) Tips() *usecase.Tips { return c.tips }

// Users returns the user use cases.
func (c *Container) Users() *usecase.Users { return c.users }

// Reader returns the cached read model.
func (c *Container) Reader() *readmodel.Reader { return c.reader }
