package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-tips-admin/cache"
	"github.com/goliatone/go-tips-admin/internal/storage"
	"github.com/goliatone/go-tips-admin/internal/telemetry"
	"github.com/goliatone/go-tips-admin/pkg/logging"
)

// EnvPrefix prefixes every environment override, e.g. TIPS_CACHE_BACKEND.
const EnvPrefix = "TIPS"

// Config is the application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// DatabaseConfig selects the SQL driver and connection string.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// CacheConfig configures the cache store and eviction bounds.
type CacheConfig struct {
	Backend            string        `mapstructure:"backend"`
	TTL                time.Duration `mapstructure:"ttl"`
	Capacity           int           `mapstructure:"capacity"`
	NumShards          int           `mapstructure:"num_shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
	EvictionInterval   time.Duration `mapstructure:"eviction_interval"`
	RemoveTimeout      time.Duration `mapstructure:"remove_timeout"`
	Redis              RedisConfig   `mapstructure:"redis"`
}

// RedisConfig is read only when the cache backend is redis.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	OpTimeout time.Duration `mapstructure:"op_timeout"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Backend string `mapstructure:"backend"`
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
}

// MetricsConfig selects the metrics exporter.
type MetricsConfig struct {
	Exporter string `mapstructure:"exporter"`
	Addr     string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	store := cache.DefaultConfig()

	v.SetDefault("database.driver", storage.DriverSQLite)
	v.SetDefault("database.dsn", storage.InMemoryDSN)

	v.SetDefault("cache.backend", cache.BackendMemory)
	v.SetDefault("cache.ttl", store.TTL)
	v.SetDefault("cache.capacity", store.Capacity)
	v.SetDefault("cache.num_shards", store.NumShards)
	v.SetDefault("cache.eviction_percentage", store.EvictionPercentage)
	v.SetDefault("cache.eviction_interval", store.EvictionInterval)
	v.SetDefault("cache.remove_timeout", 2*time.Second)
	v.SetDefault("cache.redis.addr", store.Redis.Addr)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.op_timeout", store.Redis.OpTimeout)

	v.SetDefault("log.backend", logging.BackendZap)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatJSON)

	v.SetDefault("metrics.exporter", telemetry.ExporterNone)
	v.SetDefault("metrics.addr", ":9464")
}

// Load reads configuration from defaults, an optional config file, a local
// .env file and TIPS_ prefixed environment variables, in increasing order of
// precedence.
func Load(path string) (*Config, error) {
	// .env is only present in local development
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Database),
		validation.Field(&c.Cache),
		validation.Field(&c.Log),
		validation.Field(&c.Metrics),
	)
}

// Validate checks the driver and DSN.
func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(storage.DriverSQLite, storage.DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
	)
}

// Validate checks the cache section. The redis section is only checked for
// the redis backend.
func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(cache.BackendMemory, cache.BackendRedis)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.RemoveTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Redis, validation.Skip.When(c.Backend != cache.BackendRedis)),
	)
}

// Validate checks the redis section.
func (c RedisConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DB, validation.Min(0)),
	)
}

// Validate checks the logger backend and format.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.In(logging.BackendZap, logging.BackendLogrus)),
		validation.Field(&c.Format, validation.In(logging.FormatJSON, logging.FormatConsole)),
	)
}

// Validate checks the exporter name.
func (c MetricsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Exporter, validation.In(telemetry.ExporterNone, telemetry.ExporterStdout, telemetry.ExporterPrometheus)),
		validation.Field(&c.Addr, validation.When(c.Exporter == telemetry.ExporterPrometheus, validation.Required)),
	)
}

// StoreConfig converts the cache section for cache.NewCacheService.
func (c Config) StoreConfig() cache.Config {
	out := cache.DefaultConfig()
	out.Backend = c.Cache.Backend
	out.TTL = c.Cache.TTL
	out.Capacity = c.Cache.Capacity
	out.NumShards = c.Cache.NumShards
	out.EvictionPercentage = c.Cache.EvictionPercentage
	out.EvictionInterval = c.Cache.EvictionInterval
	out.Redis = cache.RedisConfig{
		Addr:      c.Cache.Redis.Addr,
		Password:  c.Cache.Redis.Password,
		DB:        c.Cache.Redis.DB,
		OpTimeout: c.Cache.Redis.OpTimeout,
	}
	return out
}

// StorageConfig converts the database section for storage.Open.
func (c Config) StorageConfig() storage.Config {
	return storage.Config{Driver: c.Database.Driver, DSN: c.Database.DSN}
}

// LoggingConfig converts the log section for logging.New.
func (c Config) LoggingConfig() logging.Config {
	return logging.Config{Backend: c.Log.Backend, Level: c.Log.Level, Format: c.Log.Format}
}

// String implements fmt.Stringer with secrets masked.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Database.Driver: %s\n", c.Database.Driver))
	sb.WriteString(fmt.Sprintf("  Database.DSN: %s\n", mask(c.Database.DSN)))
	sb.WriteString(fmt.Sprintf("  Cache.Backend: %s\n", c.Cache.Backend))
	sb.WriteString(fmt.Sprintf("  Cache.TTL: %s\n", c.Cache.TTL))
	sb.WriteString(fmt.Sprintf("  Cache.RemoveTimeout: %s\n", c.Cache.RemoveTimeout))
	if c.Cache.Backend == cache.BackendRedis {
		sb.WriteString(fmt.Sprintf("  Cache.Redis.Addr: %s\n", c.Cache.Redis.Addr))
		sb.WriteString(fmt.Sprintf("  Cache.Redis.Password: %s\n", mask(c.Cache.Redis.Password)))
	}
	sb.WriteString(fmt.Sprintf("  Log: %s/%s/%s\n", c.Log.Backend, c.Log.Level, c.Log.Format))
	sb.WriteString(fmt.Sprintf("  Metrics.Exporter: %s\n", c.Metrics.Exporter))
	return sb.String()
}

func mask(secret string) string {
	if secret == "" {
		return "(empty)"
	}
	if secret == storage.InMemoryDSN {
		return secret
	}
	return "********"
}
