package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GoPolymarket/walletgate/internal/middleware"
	"github.com/jmoiron/sqlx"
)

type PostgresIdempotencyStore struct {
	db *sqlx.DB
}

func NewPostgresIdempotencyStore(ctx context.Context, db *sqlx.DB) (*PostgresIdempotencyStore, error) {
	store := &PostgresIdempotencyStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("idempotency schema: %w", err)
	}
	return store, nil
}

func (s *PostgresIdempotencyStore) GetOrLock(ctx context.Context, key string) (*middleware.IdempotencyRecord, bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO walletgate_idempotency_keys (key, processing, created_at)
		VALUES ($1, true, $2)
		ON CONFLICT (key) DO NOTHING
	`, key, time.Now().UTC())
	if err != nil {
		return nil, false, err
	}
	if rows, err := result.RowsAffected(); err == nil && rows > 0 {
		return nil, false, nil
	}

	var rec middleware.IdempotencyRecord
	err = s.db.QueryRowxContext(ctx, `
		SELECT status_code, response_body, created_at, processing
		FROM walletgate_idempotency_keys
		WHERE key = $1
	`, key).Scan(&rec.Status, &rec.Body, &rec.CreatedAt, &rec.Processing)
	if errors.Is(err, sql.ErrNoRows) {
		return s.GetOrLock(ctx, key)
	}
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

func (s *PostgresIdempotencyStore) Save(ctx context.Context, key string, status int, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE walletgate_idempotency_keys
		SET status_code = $2, response_body = $3, processing = false
		WHERE key = $1
	`, key, status, body)
	return err
}

func (s *PostgresIdempotencyStore) Unlock(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM walletgate_idempotency_keys WHERE key = $1`, key)
	return err
}

func (s *PostgresIdempotencyStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS walletgate_idempotency_keys (
			key TEXT PRIMARY KEY,
			status_code INTEGER NOT NULL DEFAULT 0,
			response_body BYTEA,
			processing BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (s *PostgresIdempotencyStore) Cleanup(ctx context.Context, olderThan time.Duration) error {
	if olderThan <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().Add(-olderThan)
	_, err := s.db.ExecContext(ctx, `DELETE FROM walletgate_idempotency_keys WHERE created_at < $1`, cutoff)
	return err
}
