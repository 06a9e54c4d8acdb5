package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresBackend struct {
	db    pgQuerier
	close func()
}

// NewPostgres guarda cada clave como una fila de la tabla kv_store.
// Crea la tabla si no existe.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (Backend, error) {
	b := &postgresBackend{db: pool, close: pool.Close}
	if err := b.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *postgresBackend) ensureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := b.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create kv_store table: %w", err)
	}
	return nil
}

func (b *postgresBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `
		SELECT value
		FROM kv_store
		WHERE key = $1
	`
	var value string
	err := b.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (b *postgresBackend) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := b.db.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (b *postgresBackend) Close() error {
	if b.close != nil {
		b.close()
	}
	return nil
}
