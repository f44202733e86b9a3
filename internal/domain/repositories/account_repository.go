package repositories

import (
	"context"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
)

// AccountRepository is the only writer of account balances.
type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	GetByNumber(ctx context.Context, number string) (*entities.Account, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Account, error)
	List(ctx context.Context) ([]*entities.Account, error)
	// ApplyDelta adds delta to the balance. It fails with ErrAccountNotFound,
	// ErrAccountInactive or ErrInsufficientFunds and leaves the balance unchanged.
	ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*entities.Account, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*entities.Account, error)
}
