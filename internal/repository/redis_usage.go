package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const usageField = "commands"

// RedisUsageRepo keeps one hash per subject and UTC day.
type RedisUsageRepo struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisUsageRepo(client redis.Cmdable) *RedisUsageRepo {
	return &RedisUsageRepo{
		client: client,
		prefix: "walletgate:usage",
		ttl:    48 * time.Hour,
	}
}

func (r *RedisUsageRepo) GetDailyUsage(ctx context.Context, subject string) (int, error) {
	n, err := r.client.HGet(ctx, r.makeKey(subject, time.Now()), usageField).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (r *RedisUsageRepo) AddDailyUsage(ctx context.Context, subject string, commands int) error {
	if commands == 0 {
		return nil
	}
	key := r.makeKey(subject, time.Now())
	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, key, usageField, int64(commands))
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisUsageRepo) makeKey(subject string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, subject, now.UTC().Format("2006-01-02"))
}
