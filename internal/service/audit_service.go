package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/GoPolymarket/walletgate/internal/model"
	"github.com/GoPolymarket/walletgate/internal/pkg/logger"
)

type AuditRepo interface {
	Insert(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, callerID string, limit int, from, to *time.Time) ([]*model.AuditLog, error)
}

// AuditService fans audit records out to a ring buffer, an optional daily
// jsonl file and an optional repo. Writes happen on one background goroutine.
type AuditService struct {
	logChan chan *model.AuditLog
	logFile *os.File
	buffer  *auditBuffer
	repo    AuditRepo
	done    chan struct{}
	once    sync.Once
}

// NewAuditService starts the writer. An empty logDir disables the file.
func NewAuditService(logDir string, bufferSize int, repo AuditRepo) (*AuditService, error) {
	var f *os.File
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, err
		}
		filename := filepath.Join(logDir, "audit-"+time.Now().UTC().Format("2006-01-02")+".jsonl")
		var err error
		f, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
	}
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	svc := &AuditService{
		logChan: make(chan *model.AuditLog, bufferSize),
		logFile: f,
		buffer:  newAuditBuffer(bufferSize),
		repo:    repo,
		done:    make(chan struct{}),
	}
	go svc.processLogs()
	return svc, nil
}

func (s *AuditService) Log(entry *model.AuditLog) {
	if entry == nil {
		return
	}
	s.buffer.Add(entry)
	select {
	case s.logChan <- entry:
	default:
		logger.Warn("audit queue full, dropping entry", "id", entry.ID)
	}
}

// List reads from the repo and falls back to the in-memory buffer when the
// repo is missing or failing.
func (s *AuditService) List(ctx context.Context, callerID string, limit int, from, to *time.Time) ([]*model.AuditLog, error) {
	if s.repo != nil {
		records, err := s.repo.List(ctx, callerID, limit, from, to)
		if err == nil {
			return records, nil
		}
		logger.LogError(ctx, err, "audit repo list failed, serving from buffer")
	}
	return s.buffer.List(callerID, limit, from, to), nil
}

func (s *AuditService) processLogs() {
	defer close(s.done)
	var encoder *json.Encoder
	if s.logFile != nil {
		encoder = json.NewEncoder(s.logFile)
	}
	for entry := range s.logChan {
		if s.repo != nil {
			if err := s.repo.Insert(context.Background(), entry); err != nil {
				logger.Error("failed to write audit entry to repo", "id", entry.ID, "error", err.Error())
			}
		}
		if encoder != nil {
			if err := encoder.Encode(entry); err != nil {
				logger.Error("failed to write audit entry to file", "id", entry.ID, "error", err.Error())
			}
		}
	}
}

// Close drains queued entries and closes the file. Log must not be called
// after Close.
func (s *AuditService) Close() {
	s.once.Do(func() {
		close(s.logChan)
		<-s.done
		if s.logFile != nil {
			_ = s.logFile.Close()
		}
	})
}

type auditBuffer struct {
	mu        sync.Mutex
	maxSize   int
	records   []*model.AuditLog
	nextIndex int
}

func newAuditBuffer(maxSize int) *auditBuffer {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &auditBuffer{
		maxSize: maxSize,
		records: make([]*model.AuditLog, 0, maxSize),
	}
}

func (b *auditBuffer) Add(entry *model.AuditLog) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) < b.maxSize {
		b.records = append(b.records, entry)
		return
	}
	b.records[b.nextIndex] = entry
	b.nextIndex = (b.nextIndex + 1) % b.maxSize
}

// List returns newest first.
func (b *auditBuffer) List(callerID string, limit int, from, to *time.Time) []*model.AuditLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limit <= 0 || limit > b.maxSize {
		limit = b.maxSize
	}
	results := make([]*model.AuditLog, 0, limit)
	total := len(b.records)
	for i := 0; i < total; i++ {
		idx := (b.nextIndex + total - 1 - i) % total
		entry := b.records[idx]
		if callerID != "" && entry.CallerID != callerID {
			continue
		}
		if from != nil && entry.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && entry.CreatedAt.After(*to) {
			continue
		}
		results = append(results, entry)
		if len(results) >= limit {
			break
		}
	}
	return results
}
