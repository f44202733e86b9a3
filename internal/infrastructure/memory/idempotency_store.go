package memory

import (
	"context"
	"sync"
	"time"

	domainerrors "vnbank.backend/internal/domain/errors"
)

const processingValue = "processing"

type idempotencyEntry struct {
	value     string
	expiresAt time.Time
}

// IdempotencyStore is an in-process IdempotencyStore with expiring keys
type IdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]idempotencyEntry
	lockTTL   time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewIdempotencyStore creates a store holding in-flight keys for lockTTL and
// completed keys for retention
func NewIdempotencyStore(lockTTL, retention time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		entries:   make(map[string]idempotencyEntry),
		lockTTL:   lockTTL,
		retention: retention,
		now:       time.Now,
	}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		if e.value == processingValue {
			return "", false, domainerrors.ErrIdempotencyConflict
		}
		return e.value, false, nil
	}
	s.entries[key] = idempotencyEntry{value: processingValue, expiresAt: now.Add(s.lockTTL)}
	return "", true, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = idempotencyEntry{value: value, expiresAt: s.now().Add(s.retention)}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
