package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNilClient is returned when a redis store is built without a client.
var ErrNilClient = errors.New("redis store: nil client")

// RedisService stores msgpack-encoded values in redis. Every round trip runs
// under its own timeout so an unreachable server surfaces as an error instead
// of blocking the caller.
type RedisService struct {
	rdb       goredis.UniversalClient
	ttl       time.Duration
	opTimeout time.Duration
}

// NewRedisService builds a store on top of an existing client.
func NewRedisService(client goredis.UniversalClient, ttl, opTimeout time.Duration) (*RedisService, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &RedisService{rdb: client, ttl: ttl, opTimeout: opTimeout}, nil
}

// NewRedisServiceFromConfig validates cfg and dials a new client.
func NewRedisServiceFromConfig(cfg Config) (*RedisService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return NewRedisService(client, cfg.TTL, cfg.Redis.OpTimeout)
}

// GetOrFetch decodes a hit into the fetch function's result type. On a miss it
// calls fetchFn and stores the encoded result.
func (s *RedisService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	raw, ok, err := s.getRaw(ctx, key)
	if err != nil {
		return nil, err
	}

	if ok {
		target := reflect.New(fetchResultType(fetchFn))
		if err := msgpack.Unmarshal(raw, target.Interface()); err == nil {
			return target.Elem().Interface(), nil
		}
		// undecodable entry: drop it and refetch
		if err := s.Delete(ctx, key); err != nil {
			return nil, err
		}
	}

	value, err := callFetchFunction(ctx, fetchFn)
	if err != nil {
		return nil, err
	}

	if err := s.Set(ctx, key, value); err != nil {
		return nil, err
	}

	return value, nil
}

// Get returns the raw msgpack payload stored under key.
func (s *RedisService) Get(ctx context.Context, key string) (any, bool, error) {
	raw, ok, err := s.getRaw(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return raw, true, nil
}

// Set encodes value with msgpack and stores it with the configured TTL.
func (s *RedisService) Set(ctx context.Context, key string, value any) error {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis store: encode %q: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis store: set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Redis reports zero deleted keys for a miss, which is
// not an error; transport failures and timeouts are.
func (s *RedisService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis store: delete %q: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisService) Close() error {
	if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}

func (s *RedisService) getRaw(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis store: get %q: %w", key, err)
	}
	return b, true, nil
}
