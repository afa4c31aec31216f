package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type PostgresUsageRepo struct {
	db *sqlx.DB
}

func NewPostgresUsageRepo(ctx context.Context, db *sqlx.DB) (*PostgresUsageRepo, error) {
	repo := &PostgresUsageRepo{db: db}
	if err := repo.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("usage schema: %w", err)
	}
	return repo, nil
}

func (r *PostgresUsageRepo) GetDailyUsage(ctx context.Context, subject string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT commands FROM walletgate_daily_usage WHERE subject = $1 AND day = $2`,
		subject, today())
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

func (r *PostgresUsageRepo) AddDailyUsage(ctx context.Context, subject string, commands int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO walletgate_daily_usage (subject, day, commands)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject, day)
		DO UPDATE SET commands = walletgate_daily_usage.commands + EXCLUDED.commands
	`, subject, today(), commands)
	return err
}

func (r *PostgresUsageRepo) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS walletgate_daily_usage (
			subject TEXT NOT NULL,
			day DATE NOT NULL,
			commands INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (subject, day)
		)
	`)
	return err
}

func (r *PostgresUsageRepo) Cleanup(ctx context.Context, olderThan time.Duration) error {
	if olderThan <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().Add(-olderThan)
	_, err := r.db.ExecContext(ctx, `DELETE FROM walletgate_daily_usage WHERE day < $1`, cutoff.Format("2006-01-02"))
	return err
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
