package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/domain/repositories"
	"vnbank.backend/pkg/crypto"
)

const accountNumberAttempts = 5

var randomDigits = crypto.RandomDigits

// AccountUsecase handles account provisioning and access checks
type AccountUsecase struct {
	accountRepo repositories.AccountRepository
	userRepo    repositories.UserRepository
	locker      AccountLocker
}

// NewAccountUsecase creates a new account usecase. locker must be the one the
// transfer engine uses so status changes never land mid-transfer.
func NewAccountUsecase(accountRepo repositories.AccountRepository, userRepo repositories.UserRepository, locker AccountLocker) *AccountUsecase {
	return &AccountUsecase{accountRepo: accountRepo, userRepo: userRepo, locker: locker}
}

// OpenAccount opens a zero-balance account for userID. Without an explicit
// type, owners whose name contains "công ty" get a BUSINESS account.
func (u *AccountUsecase) OpenAccount(ctx context.Context, userID uuid.UUID, input *entities.OpenAccountInput) (*entities.Account, error) {
	owner, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accountType := input.Type
	switch {
	case accountType == "":
		accountType = defaultAccountType(owner.Name)
	case !accountType.Valid():
		return nil, domainerrors.NewError("type must be PAYMENT, SAVINGS or BUSINESS", domainerrors.ErrInvalidInput)
	}
	return createAccount(ctx, u.accountRepo, owner.ID, accountType)
}

func defaultAccountType(ownerName string) entities.AccountType {
	if strings.Contains(strings.ToLower(ownerName), "công ty") {
		return entities.AccountTypeBusiness
	}
	return entities.AccountTypePayment
}

// createAccount stores an active account under a fresh random number
func createAccount(ctx context.Context, repo repositories.AccountRepository, userID uuid.UUID, accountType entities.AccountType) (*entities.Account, error) {
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		suffix, err := randomDigits(6)
		if err != nil {
			return nil, err
		}
		acct := &entities.Account{
			UserID:        userID,
			AccountNumber: accountType.NumberPrefix() + "00" + suffix,
			IsActive:      true,
			Type:          accountType,
		}
		err = repo.Create(ctx, acct)
		if err == nil {
			return acct, nil
		}
		if !errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, err
		}
	}
	return nil, domainerrors.ErrAlreadyExists
}

// SetActive locks or unlocks an account. It waits for in-flight money
// movement on the account and returns ErrBusy if that takes too long.
func (u *AccountUsecase) SetActive(ctx context.Context, id uuid.UUID, active bool) (*entities.Account, error) {
	unlock, err := u.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return u.accountRepo.SetActive(ctx, id, active)
}

// ListByUser returns the user's accounts, oldest first
func (u *AccountUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Account, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return u.accountRepo.ListByUserID(ctx, userID)
}

// List returns every account
func (u *AccountUsecase) List(ctx context.Context) ([]*entities.Account, error) {
	return u.accountRepo.List(ctx)
}

// GetAccessible returns the account if the caller may act on it: staff may
// act on any account, customers only on their own.
func (u *AccountUsecase) GetAccessible(ctx context.Context, userID uuid.UUID, role entities.UserRole, accountID uuid.UUID) (*entities.Account, error) {
	acct, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !role.IsStaff() && acct.UserID != userID {
		return nil, domainerrors.ErrForbidden
	}
	return acct, nil
}
