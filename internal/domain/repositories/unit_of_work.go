package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope. Either every
	// write made through ctx inside fn is committed or none is.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks ctx so that account reads inside Do lock the rows they read.
	WithLock(ctx context.Context) context.Context
}
