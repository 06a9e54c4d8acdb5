package kv

import (
	"context"
	"fmt"
	"strings"

	"visit-translator/internal/config"
	"visit-translator/internal/db"
)

// Open construye el Backend indicado por STORE_DRIVER.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch driver {
	case config.StoreDriverMemory:
		return NewMemory(), nil
	case "", config.StoreDriverBolt:
		return NewBolt(cfg.StorePath)
	case config.StoreDriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	case config.StoreDriverRedis:
		client, err := db.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, cfg.RedisKeyPrefix, cfg.RedisTimeout), nil
	case config.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		backend, err := NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
