package state

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mhenley/scorepush/internal/engine"
)

// RedisConfig holds connection parameters for the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the snapshot set in a single Redis string key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedis creates a Redis store and pings it to verify connectivity.
func NewRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisStore{rdb: rdb, key: cfg.Key}, nil
}

func (s *RedisStore) Load(ctx context.Context) (engine.SnapshotSet, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return engine.SnapshotSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", s.key, err)
	}
	return decodeSet(data)
}

func (s *RedisStore) Save(ctx context.Context, set engine.SnapshotSet) error {
	data, err := encodeSet(set)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
