package main

import (
	"context"
	"time"

	"github.com/GoPolymarket/walletgate/internal/config"
	"github.com/GoPolymarket/walletgate/internal/middleware"
	"github.com/GoPolymarket/walletgate/internal/pkg/logger"
	"github.com/GoPolymarket/walletgate/internal/repository"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type cleaner struct {
	name      string
	retention time.Duration
	fn        func(ctx context.Context, olderThan time.Duration) error
}

type stores struct {
	usage       service.UsageRepo
	idempotency middleware.IdempotencyStore
	audit       service.AuditRepo
	cleaners    []cleaner
}

// openStores picks a backend per concern. rdb and db may be nil.
func openStores(ctx context.Context, cfg *config.Config, rdb *redis.Client, db *sqlx.DB) stores {
	var s stores
	idemTTL := time.Duration(cfg.Redis.IdempotencyTTLSeconds) * time.Second

	if rdb != nil {
		s.usage = repository.NewRedisUsageRepo(rdb)
		s.idempotency = repository.NewRedisIdempotencyStore(rdb, idemTTL)
		s.audit = repository.NewRedisAuditRepo(rdb, cfg.Redis.AuditListKey, cfg.Redis.AuditListMax)
	}

	if db != nil {
		// Postgres keeps the audit trail even when Redis is up.
		if repo, err := repository.NewPostgresAuditRepo(ctx, db); err != nil {
			logger.Error("Postgres audit store unavailable", "error", err)
		} else {
			s.audit = repo
			s.cleaners = append(s.cleaners, cleaner{"audit", days(cfg.Database.AuditRetentionDays), repo.Cleanup})
		}

		if s.idempotency == nil {
			if store, err := repository.NewPostgresIdempotencyStore(ctx, db); err != nil {
				logger.Error("Postgres idempotency store unavailable", "error", err)
			} else {
				s.idempotency = store
				s.cleaners = append(s.cleaners, cleaner{"idempotency",
					time.Duration(cfg.Database.IdempotencyRetentionHours) * time.Hour, store.Cleanup})
			}
		}

		if s.usage == nil {
			if repo, err := repository.NewPostgresUsageRepo(ctx, db); err != nil {
				logger.Error("Postgres usage store unavailable", "error", err)
			} else {
				s.usage = repo
				s.cleaners = append(s.cleaners, cleaner{"usage", days(cfg.Database.UsageRetentionDays), repo.Cleanup})
			}
		}
	}

	if s.usage == nil {
		s.usage = service.NewMemoryUsageStore()
	}
	if s.idempotency == nil {
		s.idempotency = middleware.NewInMemIdempotencyStore(idemTTL)
	}
	return s
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// runCleanup prunes expired Postgres rows until ctx is done.
func runCleanup(ctx context.Context, cfg config.DatabaseConfig, cleaners []cleaner) {
	interval := time.Duration(cfg.CleanupIntervalMinutes) * time.Minute
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range cleaners {
				if c.retention <= 0 {
					continue
				}
				if err := c.fn(ctx, c.retention); err != nil {
					logger.Warn("cleanup failed", "store", c.name, "error", err)
				}
			}
		}
	}
}
