package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GoPolymarket/walletgate/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisAuditRepo keeps the newest listMax audit entries in a Redis list.
type RedisAuditRepo struct {
	client  redis.Cmdable
	listKey string
	listMax int
}

func NewRedisAuditRepo(client redis.Cmdable, listKey string, listMax int) *RedisAuditRepo {
	if listKey == "" {
		listKey = "walletgate:audit"
	}
	if listMax <= 0 {
		listMax = 10000
	}
	return &RedisAuditRepo{
		client:  client,
		listKey: listKey,
		listMax: listMax,
	}
}

func (r *RedisAuditRepo) Insert(ctx context.Context, entry *model.AuditLog) error {
	if entry == nil {
		return nil
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, r.listKey, payload)
	pipe.LTrim(ctx, r.listKey, 0, int64(r.listMax-1))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisAuditRepo) List(ctx context.Context, callerID string, limit int, from, to *time.Time) ([]*model.AuditLog, error) {
	limit = clampLimit(limit)
	fetch := limit * 5
	if fetch < 100 {
		fetch = 100
	}
	if fetch > r.listMax {
		fetch = r.listMax
	}
	items, err := r.client.LRange(ctx, r.listKey, 0, int64(fetch-1)).Result()
	if err != nil {
		return nil, err
	}
	return filterAuditEntries(items, callerID, limit, from, to), nil
}

func filterAuditEntries(items []string, callerID string, limit int, from, to *time.Time) []*model.AuditLog {
	results := make([]*model.AuditLog, 0, limit)
	for _, raw := range items {
		var entry model.AuditLog
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		if callerID != "" && entry.CallerID != callerID {
			continue
		}
		if from != nil && entry.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && entry.CreatedAt.After(*to) {
			continue
		}
		results = append(results, &entry)
		if len(results) >= limit {
			break
		}
	}
	return results
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return 100
	}
	return limit
}
