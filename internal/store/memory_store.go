package store

import (
	"context"
	"sync"
	"time"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// MemoryStore is an in-process alert store for tests and single-instance
// runs without Redis. Records are purged by scan rather than by TTL.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]time.Time
	locked  bool
}

// NewMemoryStore creates an empty in-memory alert store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]time.Time)}
}

// Seen reports whether a play was already alerted inside the dedup window
func (s *MemoryStore) Seen(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[key]
	return ok, nil
}

// MarkBatch records alerted plays
func (s *MemoryStore) MarkBatch(ctx context.Context, records []models.AlertRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[rec.Key] = rec.AlertedAt
	}
	return nil
}

// PurgeExpired drops records alerted before the cutoff and returns how many
func (s *MemoryStore) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for key, alertedAt := range s.records {
		if alertedAt.Before(olderThan) {
			delete(s.records, key)
			purged++
		}
	}
	return purged, nil
}

// TryLock attempts to acquire the scan lock. False means a scan is running.
func (s *MemoryStore) TryLock(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return false, nil
	}
	s.locked = true
	return true, nil
}

// Unlock releases the scan lock
func (s *MemoryStore) Unlock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = false
	return nil
}

// Ping reports readiness; the in-memory store is always reachable
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
