package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		entry_key  TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type postgresBackend struct {
	db    *sqlx.DB
	owned bool
}

// NewPostgres builds a backend on a shared postgres database.
func NewPostgres(ctx context.Context, db *sqlx.DB, owned bool) (Backend, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres token store requires database handle")
	}
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}
	return &postgresBackend{db: db, owned: owned}, nil
}

func (b *postgresBackend) Name() string { return DriverPostgres }

func (b *postgresBackend) Read(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_entries WHERE entry_key = $1`
	var value string
	err := b.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select kv entry: %w", err)
	}
	return value, true, nil
}

// Write upserts the value; a concurrent writer simply wins or loses.
func (b *postgresBackend) Write(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (entry_key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (entry_key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`
	if _, err := b.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert kv entry: %w", err)
	}
	return nil
}

func (b *postgresBackend) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE entry_key = $1`
	if _, err := b.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}
	return nil
}

func (b *postgresBackend) Close() error {
	if !b.owned {
		return nil
	}
	return b.db.Close()
}
