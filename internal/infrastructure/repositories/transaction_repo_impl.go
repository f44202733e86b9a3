package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/infrastructure/models"
	"vnbank.backend/pkg/utils"
)

// TransactionRepository implements the append-only ledger
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append inserts tx. Seq comes from the table's auto-increment key.
func (r *TransactionRepository) Append(ctx context.Context, tx *entities.Transaction) (uuid.UUID, error) {
	if tx.FromAccountID == nil && tx.ToAccountID == nil {
		return uuid.Nil, domainerrors.ErrInvalidInput
	}
	if tx.Amount <= 0 {
		return uuid.Nil, domainerrors.ErrInvalidAmount
	}
	if tx.ID == uuid.Nil {
		tx.ID = utils.GenerateUUIDv7()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	m := &models.Transaction{
		ID:            tx.ID,
		FromAccountID: tx.FromAccountID,
		ToAccountID:   tx.ToAccountID,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return uuid.Nil, err
	}
	tx.Seq = m.Seq
	return tx.ID, nil
}

// GetByID gets a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	var m models.Transaction
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByAccount lists transactions touching the account, newest first
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.Transaction, error) {
	var ms []models.Transaction
	err := GetDB(ctx, r.db).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Order("created_at desc").Order("seq desc").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	txs := make([]*entities.Transaction, len(ms))
	for i := range ms {
		txs[i] = r.toEntity(&ms[i])
	}
	return txs, nil
}

// Count returns the number of ledger records
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TransactionRepository) toEntity(m *models.Transaction) *entities.Transaction {
	return &entities.Transaction{
		ID:            m.ID,
		Seq:           m.Seq,
		FromAccountID: m.FromAccountID,
		ToAccountID:   m.ToAccountID,
		Amount:        m.Amount,
		Type:          entities.TransactionType(m.Type),
		Description:   m.Description,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}
