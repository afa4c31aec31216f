package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/GoPolymarket/walletgate/internal/middleware"
	"github.com/redis/go-redis/v9"
)

type RedisIdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisIdempotencyStore(client redis.Cmdable, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
		prefix: "walletgate:idem:",
	}
}

func (s *RedisIdempotencyStore) GetOrLock(ctx context.Context, key string) (*middleware.IdempotencyRecord, bool, error) {
	payload, err := encodeIdemRecord(middleware.IdempotencyRecord{
		CreatedAt:  time.Now().UTC(),
		Processing: true,
	})
	if err != nil {
		return nil, false, err
	}
	locked, err := s.client.SetNX(ctx, s.prefix+key, payload, s.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if locked {
		return nil, false, nil
	}

	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; try once more.
		return s.GetOrLock(ctx, key)
	}
	if err != nil {
		return nil, false, err
	}
	rec, err := decodeIdemRecord(raw)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, status int, body []byte) error {
	payload, err := encodeIdemRecord(middleware.IdempotencyRecord{
		Status:    status,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, payload, s.ttl).Err()
}

func (s *RedisIdempotencyStore) Unlock(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

type idemWire struct {
	Status     int    `json:"status"`
	Body       []byte `json:"body"`
	CreatedAt  int64  `json:"created_at"`
	Processing bool   `json:"processing"`
}

func encodeIdemRecord(rec middleware.IdempotencyRecord) ([]byte, error) {
	return json.Marshal(idemWire{
		Status:     rec.Status,
		Body:       rec.Body,
		CreatedAt:  rec.CreatedAt.Unix(),
		Processing: rec.Processing,
	})
}

func decodeIdemRecord(raw []byte) (*middleware.IdempotencyRecord, error) {
	var wire idemWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}
	return &middleware.IdempotencyRecord{
		Status:     wire.Status,
		Body:       wire.Body,
		CreatedAt:  time.Unix(wire.CreatedAt, 0).UTC(),
		Processing: wire.Processing,
	}, nil
}
