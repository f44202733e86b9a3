package repositories

import "context"

// IdempotencyStore remembers the result of keyed requests.
type IdempotencyStore interface {
	// Reserve claims key. When the key already completed it returns the stored
	// value and reserved=false; when another attempt holds it, ErrIdempotencyConflict.
	Reserve(ctx context.Context, key string) (value string, reserved bool, err error)
	Complete(ctx context.Context, key, value string) error
	Release(ctx context.Context, key string) error
}
