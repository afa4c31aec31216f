package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/GoPolymarket/walletgate/internal/pkg/logger"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

const HeaderIdempotencyKey = "X-Idempotency-Key"

type IdempotencyRecord struct {
	Status     int
	Body       []byte
	CreatedAt  time.Time
	Processing bool // a request holding the key is still running
}

type IdempotencyStore interface {
	// GetOrLock returns (record, true) if key exists and (nil, false) if the
	// caller now holds it.
	GetOrLock(ctx context.Context, key string) (*IdempotencyRecord, bool, error)
	Save(ctx context.Context, key string, status int, body []byte) error
	Unlock(ctx context.Context, key string) error
}

// InMemIdempotencyStore keeps records for ttl in process memory. Expired
// records are dropped on GetOrLock, at most once per pruneEvery.
type InMemIdempotencyStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	records   map[string]*IdempotencyRecord
	now       func() time.Time
	lastPrune time.Time
}

const pruneEvery = time.Minute

func NewInMemIdempotencyStore(ttl time.Duration) *InMemIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InMemIdempotencyStore{
		ttl:     ttl,
		records: make(map[string]*IdempotencyRecord),
		now:     time.Now,
	}
}

func (s *InMemIdempotencyStore) GetOrLock(_ context.Context, key string) (*IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastPrune) >= pruneEvery {
		s.pruneLocked(now)
	}
	if rec, ok := s.records[key]; ok && now.Sub(rec.CreatedAt) < s.ttl {
		return rec, true, nil
	}
	s.records[key] = &IdempotencyRecord{
		Processing: true,
		CreatedAt:  now,
	}
	return nil, false, nil
}

func (s *InMemIdempotencyStore) pruneLocked(now time.Time) {
	for key, rec := range s.records {
		if now.Sub(rec.CreatedAt) >= s.ttl {
			delete(s.records, key)
		}
	}
	s.lastPrune = now
}

func (s *InMemIdempotencyStore) Save(_ context.Context, key string, status int, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = &IdempotencyRecord{
		Status:    status,
		Body:      body,
		CreatedAt: s.now(),
	}
	return nil
}

func (s *InMemIdempotencyStore) Unlock(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// IdempotencyMiddleware replays the stored response for a repeated
// X-Idempotency-Key from the same caller. Responses of 500 and above are not
// stored so the request can be retried.
func IdempotencyMiddleware(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		idemKey := c.GetHeader(HeaderIdempotencyKey)
		if idemKey == "" {
			c.Next()
			return
		}
		caller := CallerFrom(c)
		if caller == nil {
			c.Next()
			return
		}
		fullKey := caller.ID + ":" + idemKey
		ctx := c.Request.Context()

		record, hit, err := store.GetOrLock(ctx, fullKey)
		if err != nil {
			Fail(c, apperrors.New(apperrors.ErrInternal, "idempotency store unavailable", err))
			return
		}
		if hit {
			if record.Processing {
				c.JSON(http.StatusConflict, gin.H{"code": "REQUEST_IN_PROGRESS", "message": "request in progress"})
				c.Abort()
				return
			}
			c.Header("Idempotent-Replay", "true")
			c.Data(record.Status, "application/json; charset=utf-8", record.Body)
			c.Abort()
			return
		}

		w := &responseBodyWriter{ResponseWriter: c.Writer}
		c.Writer = w

		// Runs on panic too, so a crashed handler releases its key.
		completed := false
		defer func() {
			// The request context may already be cancelled here.
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()

			var err error
			if completed && c.Writer.Status() < 500 {
				err = store.Save(saveCtx, fullKey, c.Writer.Status(), w.body)
			} else {
				err = store.Unlock(saveCtx, fullKey)
			}
			if err != nil {
				logger.LogError(ctx, err, "idempotency store write failed", "key", fullKey)
			}
		}()

		c.Next()
		completed = true
	}
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}
