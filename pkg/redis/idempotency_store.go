package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	domainerrors "vnbank.backend/internal/domain/errors"
)

const processingValue = "processing"

// IdempotencyStore keeps request outcomes under idempotency:<key>.
// An in-flight claim holds "processing" for lockTTL; a completed one
// holds the result for retention.
type IdempotencyStore struct {
	lockTTL   time.Duration
	retention time.Duration
}

var (
	getIdempotencyValue   = Get
	setIdempotencyValue   = Set
	setNXIdempotencyValue = SetNX
	delIdempotencyValue   = Del
)

// NewIdempotencyStore creates a store on the package client
func NewIdempotencyStore(lockTTL, retention time.Duration) *IdempotencyStore {
	return &IdempotencyStore{lockTTL: lockTTL, retention: retention}
}

func idempotencyKey(key string) string {
	return "idempotency:" + key
}

// Reserve claims key for the caller
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	storageKey := idempotencyKey(key)

	ok, err := setNXIdempotencyValue(ctx, storageKey, processingValue, s.lockTTL)
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	val, err := getIdempotencyValue(ctx, storageKey)
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return "", false, domainerrors.ErrIdempotencyConflict
	}
	if err != nil {
		return "", false, err
	}
	if val == processingValue {
		return "", false, domainerrors.ErrIdempotencyConflict
	}
	return val, false, nil
}

// Complete stores the outcome of key
func (s *IdempotencyStore) Complete(ctx context.Context, key, value string) error {
	return setIdempotencyValue(ctx, idempotencyKey(key), value, s.retention)
}

// Release drops an in-flight claim so the request can be retried
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return delIdempotencyValue(ctx, idempotencyKey(key))
}
