package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/GoPolymarket/walletgate/internal/model"
	"github.com/jmoiron/sqlx"
)

type PostgresAuditRepo struct {
	db *sqlx.DB
}

func NewPostgresAuditRepo(ctx context.Context, db *sqlx.DB) (*PostgresAuditRepo, error) {
	repo := &PostgresAuditRepo{db: db}
	if err := repo.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("audit schema: %w", err)
	}
	return repo, nil
}

type auditRow struct {
	ID            string    `db:"id"`
	CallerID      string    `db:"caller_id"`
	Method        string    `db:"method"`
	Path          string    `db:"path"`
	IP            string    `db:"ip"`
	UserAgent     string    `db:"user_agent"`
	RequestBody   string    `db:"request_body"`
	RequestHeader string    `db:"request_header"`
	StatusCode    int       `db:"status_code"`
	ResponseBody  string    `db:"response_body"`
	LatencyMs     int64     `db:"latency_ms"`
	Context       []byte    `db:"context"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *PostgresAuditRepo) Insert(ctx context.Context, entry *model.AuditLog) error {
	if entry == nil {
		return nil
	}
	contextJSON, err := json.Marshal(entry.Context)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO walletgate_audit_logs (
			id, caller_id, method, path, ip, user_agent,
			request_body, request_header, status_code, response_body,
			latency_ms, context, created_at
		) VALUES (
			:id, :caller_id, :method, :path, :ip, :user_agent,
			:request_body, :request_header, :status_code, :response_body,
			:latency_ms, :context, :created_at
		)
		ON CONFLICT (id) DO NOTHING
	`, auditRow{
		ID:            entry.ID,
		CallerID:      entry.CallerID,
		Method:        entry.Method,
		Path:          entry.Path,
		IP:            entry.IP,
		UserAgent:     entry.UserAgent,
		RequestBody:   entry.RequestBody,
		RequestHeader: entry.RequestHeader,
		StatusCode:    entry.StatusCode,
		ResponseBody:  entry.ResponseBody,
		LatencyMs:     entry.LatencyMs,
		Context:       contextJSON,
		CreatedAt:     entry.CreatedAt,
	})
	return err
}

func (r *PostgresAuditRepo) List(ctx context.Context, callerID string, limit int, from, to *time.Time) ([]*model.AuditLog, error) {
	query, args := buildAuditListQuery(callerID, clampLimit(limit), from, to)

	var rows []auditRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	records := make([]*model.AuditLog, 0, len(rows))
	for _, row := range rows {
		entry := &model.AuditLog{
			ID:            row.ID,
			CallerID:      row.CallerID,
			Method:        row.Method,
			Path:          row.Path,
			IP:            row.IP,
			UserAgent:     row.UserAgent,
			RequestBody:   row.RequestBody,
			RequestHeader: row.RequestHeader,
			StatusCode:    row.StatusCode,
			ResponseBody:  row.ResponseBody,
			LatencyMs:     row.LatencyMs,
			Context:       map[string]interface{}{},
			CreatedAt:     row.CreatedAt,
		}
		if len(row.Context) > 0 {
			_ = json.Unmarshal(row.Context, &entry.Context)
		}
		records = append(records, entry)
	}
	return records, nil
}

func buildAuditListQuery(callerID string, limit int, from, to *time.Time) (string, []interface{}) {
	query := `SELECT id, caller_id, method, path, ip, user_agent, request_body, request_header, status_code, response_body, latency_ms, context, created_at FROM walletgate_audit_logs`
	clauses := []string{}
	args := []interface{}{}
	idx := 1

	if callerID != "" {
		clauses = append(clauses, fmt.Sprintf("caller_id = $%d", idx))
		args = append(args, callerID)
		idx++
	}
	if from != nil {
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", idx))
		args = append(args, *from)
		idx++
	}
	if to != nil {
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", idx))
		args = append(args, *to)
		idx++
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", idx)
	args = append(args, limit)
	return query, args
}

func (r *PostgresAuditRepo) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS walletgate_audit_logs (
			id TEXT PRIMARY KEY,
			caller_id TEXT NOT NULL DEFAULT '',
			method TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT '',
			ip TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			request_header TEXT NOT NULL DEFAULT '',
			status_code INTEGER NOT NULL DEFAULT 0,
			response_body TEXT NOT NULL DEFAULT '',
			latency_ms BIGINT NOT NULL DEFAULT 0,
			context JSONB,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_walletgate_audit_caller ON walletgate_audit_logs(caller_id, created_at DESC)`)
	return err
}

func (r *PostgresAuditRepo) Cleanup(ctx context.Context, olderThan time.Duration) error {
	if olderThan <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().Add(-olderThan)
	_, err := r.db.ExecContext(ctx, `DELETE FROM walletgate_audit_logs WHERE created_at < $1`, cutoff)
	return err
}
