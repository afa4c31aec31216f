package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// UsageRepo counts commands sent per subject (a wallet public key) per UTC day.
type UsageRepo interface {
	GetDailyUsage(ctx context.Context, subject string) (int, error)
	AddDailyUsage(ctx context.Context, subject string, commands int) error
}

// MemoryUsageStore is the in-process UsageRepo used when neither Redis nor
// Postgres is configured. Counts are lost on restart.
type MemoryUsageStore struct {
	mu    sync.RWMutex
	daily map[string]int // subject:YYYY-MM-DD
	now   func() time.Time
}

func NewMemoryUsageStore() *MemoryUsageStore {
	return &MemoryUsageStore{
		daily: make(map[string]int),
		now:   time.Now,
	}
}

func (s *MemoryUsageStore) GetDailyUsage(ctx context.Context, subject string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.daily[s.makeKey(subject)], nil
}

func (s *MemoryUsageStore) AddDailyUsage(ctx context.Context, subject string, commands int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.makeKey(subject)
	s.daily[key] += commands
	s.pruneLocked(key)
	return nil
}

// pruneLocked drops counters from previous days.
func (s *MemoryUsageStore) pruneLocked(current string) {
	day := current[strings.LastIndexByte(current, ':'):]
	for k := range s.daily {
		if !strings.HasSuffix(k, day) {
			delete(s.daily, k)
		}
	}
}

func (s *MemoryUsageStore) makeKey(subject string) string {
	return subject + ":" + s.now().UTC().Format("2006-01-02")
}
