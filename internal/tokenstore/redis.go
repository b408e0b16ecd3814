package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces token keys in a shared redis
const DefaultRedisPrefix = "rentowner:kv:"

type redisBackend struct {
	client *redis.Client
	prefix string
	owned  bool
}

// NewRedis builds a redis-backed store. Keys carry no TTL: validity is decided by the server.
func NewRedis(client *redis.Client, prefix string, owned bool) Backend {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &redisBackend{client: client, prefix: prefix, owned: owned}
}

func (b *redisBackend) Name() string { return DriverRedis }

func (b *redisBackend) key(k string) string {
	return b.prefix + k
}

func (b *redisBackend) Read(ctx context.Context, key string) (string, bool, error) {
	v, err := b.client.Get(ctx, b.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (b *redisBackend) Write(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, b.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *redisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (b *redisBackend) Close() error {
	if !b.owned {
		return nil
	}
	return b.client.Close()
}
