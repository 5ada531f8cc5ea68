package cache

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore implementa Store sobre la tabla kv_cache usando pgxpool.
type PgStore struct {
	db pgQuerier
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{db: pool}
}

func (s *PgStore) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
		SELECT value
		FROM kv_cache
		WHERE key = $1
	`
	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *PgStore) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO kv_cache (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := s.db.Exec(ctx, query, key, value)
	return err
}

func (s *PgStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const query = `
		DELETE FROM kv_cache
		WHERE key = ANY($1)
	`
	_, err := s.db.Exec(ctx, query, keys)
	return err
}
