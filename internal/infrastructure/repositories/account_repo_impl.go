package repositories

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/infrastructure/models"
	"vnbank.backend/pkg/utils"
)

// AccountRepository implements account persistence
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	if account.ID == uuid.Nil {
		account.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	m := &models.Account{
		ID:            account.ID,
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance,
		IsActive:      account.IsActive,
		Type:          string(account.Type),
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).Select("*").Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByNumber gets an account by its account number
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*entities.Account, error) {
	return r.first(ctx, "account_number = ?", number)
}

func (r *AccountRepository) first(ctx context.Context, query string, arg interface{}) (*entities.Account, error) {
	var m models.Account
	if err := lockingDB(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		return nil, busyAsDomain(err)
	}
	return r.toEntity(&m), nil
}

// ListByUserID lists the user's accounts, oldest first
func (r *AccountRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Account, error) {
	var ms []models.Account
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("created_at asc").Order("id asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

// List lists every account, oldest first
func (r *AccountRepository) List(ctx context.Context) ([]*entities.Account, error) {
	var ms []models.Account
	if err := GetDB(ctx, r.db).Order("created_at asc").Order("id asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

// ApplyDelta adds delta to the balance in a single guarded UPDATE so the
// balance can never go negative or overflow, even without a row lock.
func (r *AccountRepository) ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*entities.Account, error) {
	if delta == math.MinInt64 {
		return nil, domainerrors.ErrInsufficientFunds
	}
	db := GetDB(ctx, r.db)
	q := db.Model(&models.Account{}).Where("id = ? AND is_active = ?", id, true)
	if delta >= 0 {
		q = q.Where("balance <= ?", int64(math.MaxInt64)-delta)
	} else {
		q = q.Where("balance >= ?", -delta)
	}
	result := q.Updates(map[string]interface{}{
		"balance":    gorm.Expr("balance + ?", delta),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, busyAsDomain(result.Error)
	}

	acct, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		switch {
		case !acct.IsActive:
			return nil, domainerrors.ErrAccountInactive
		case delta > 0:
			return nil, domainerrors.ErrInvalidAmount
		}
		return nil, domainerrors.ErrInsufficientFunds
	}
	return acct, nil
}

// SetActive sets the active flag
func (r *AccountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*entities.Account, error) {
	acct, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct.IsActive == active {
		return acct, nil
	}

	err = GetDB(ctx, r.db).Model(&models.Account{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) toEntities(ms []models.Account) []*entities.Account {
	accounts := make([]*entities.Account, len(ms))
	for i := range ms {
		accounts[i] = r.toEntity(&ms[i])
	}
	return accounts
}

func (r *AccountRepository) toEntity(m *models.Account) *entities.Account {
	return &entities.Account{
		ID:            m.ID,
		UserID:        m.UserID,
		AccountNumber: m.AccountNumber,
		Balance:       m.Balance,
		IsActive:      m.IsActive,
		Type:          entities.AccountType(m.Type),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
