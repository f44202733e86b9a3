// Package locking serializes money movement per account.
package locking

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	domainerrors "vnbank.backend/internal/domain/errors"
)

// AccountLocker hands out exclusive, bounded-wait access to accounts.
// Locks are always taken in ascending account ID order.
type AccountLocker struct {
	mu      sync.Mutex
	sems    map[uuid.UUID]*semaphore.Weighted
	timeout time.Duration
}

// NewAccountLocker creates a locker that waits at most timeout for all locks
func NewAccountLocker(timeout time.Duration) *AccountLocker {
	return &AccountLocker{
		sems:    make(map[uuid.UUID]*semaphore.Weighted),
		timeout: timeout,
	}
}

func (l *AccountLocker) semaphoreFor(id uuid.UUID) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.sems[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[id] = sem
	}
	return sem
}

// Lock acquires every id or none. It returns ErrBusy when the wait exceeds the
// timeout and the caller's context error when ctx ends first.
func (l *AccountLocker) Lock(ctx context.Context, ids ...uuid.UUID) (func(), error) {
	ordered := orderIDs(ids)

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	held := make([]*semaphore.Weighted, 0, len(ordered))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}
	for _, id := range ordered {
		sem := l.semaphoreFor(id)
		if err := sem.Acquire(waitCtx, 1); err != nil {
			release()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, domainerrors.ErrBusy
		}
		held = append(held, sem)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func orderIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	ordered := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i][:], ordered[j][:]) < 0
	})
	return ordered
}
