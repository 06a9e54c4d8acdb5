package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 5 * time.Second

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

type redisBackend struct {
	client  redisKVClient
	prefix  string
	timeout time.Duration
}

// NewRedis usa un cliente Redis existente; las claves se guardan sin expiracion.
// timeout <= 0 usa defaultRedisTimeout.
func NewRedis(client *redis.Client, prefix string, timeout time.Duration) Backend {
	return newRedisBackend(client, prefix, timeout)
}

func newRedisBackend(client redisKVClient, prefix string, timeout time.Duration) *redisBackend {
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	return &redisBackend{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
	}
}

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	v, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (b *redisBackend) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	if err := b.client.Set(ctx, b.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}
