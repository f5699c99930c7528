package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend stores every key as a plain Redis string without expiry.
func NewRedisBackend(rdb *redis.Client) Backend {
	return &redisBackend{rdb: rdb}
}

// OpenRedis connects to addr and verifies the connection.
func OpenRedis(ctx context.Context, addr string) (Backend, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisBackend(rdb), nil
}

func (b *redisBackend) Get(ctx context.Context, key string) (string, error) {
	val, err := b.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %q from redis: %w", key, err)
	}
	return val, nil
}

func (b *redisBackend) Set(ctx context.Context, key, value string) error {
	return b.rdb.Set(ctx, key, value, 0).Err()
}

func (b *redisBackend) Delete(ctx context.Context, key string) error {
	return b.rdb.Del(ctx, key).Err()
}

func (b *redisBackend) Close() error {
	return b.rdb.Close()
}
