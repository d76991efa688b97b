package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DefaultTTL matches the lifetime of the admin read views. Entries are expected
// to be evicted explicitly on writes long before it elapses.
const DefaultTTL = 24 * time.Hour

// DefaultOpTimeout bounds a single remote store operation.
const DefaultOpTimeout = 2 * time.Second

// Config holds the configuration for the cache store adapters.
type Config struct {
	// Backend selects the store implementation: "memory" (sturdyc) or "redis".
	// Empty means memory.
	Backend string

	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the default time-to-live for cached entries.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache sweeps expired entries.
	// Zero uses the sturdyc default.
	EvictionInterval time.Duration

	// Redis is only read when Backend is "redis".
	Redis RedisConfig
}

// RedisConfig configures the redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// OpTimeout bounds every Get/Set/Delete round trip. Zero uses DefaultOpTimeout.
	OpTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendMemory,
		Capacity:           10000,
		NumShards:          256,
		TTL:                DefaultTTL,
		EvictionPercentage: 10,
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			OpTimeout: DefaultOpTimeout,
		},
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
//
// Early refreshes are never enabled: a background refresh can repopulate a
// view with data read before a write, after that write's eviction ran.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendMemory, BackendRedis:
	default:
		return &ConfigError{Field: "Backend", Message: "must be one of memory, redis"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.Backend == BackendRedis {
		if c.Redis.Addr == "" {
			return &ConfigError{Field: "Redis.Addr", Message: "must not be empty"}
		}
		if c.Redis.OpTimeout < 0 {
			return &ConfigError{Field: "Redis.OpTimeout", Message: "must be non-negative"}
		}
		return nil
	}

	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
