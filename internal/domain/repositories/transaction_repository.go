package repositories

import (
	"context"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
)

// TransactionRepository is the append-only ledger.
type TransactionRepository interface {
	// Append stores tx, assigning its ID, Seq and CreatedAt when unset.
	Append(ctx context.Context, tx *entities.Transaction) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)
	// ListByAccount returns transactions touching the account, newest first,
	// ties broken by Seq descending.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.Transaction, error)
	Count(ctx context.Context) (int64, error)
}
