package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/infrastructure/memory"
	"vnbank.backend/internal/usecases"
)

func TestNotificationUsecase_NotifyListAndReadState(t *testing.T) {
	uc := usecases.NewNotificationUsecase(memory.NewNotificationRepository(50))
	ctx := context.Background()
	user := uuid.New()

	first, err := uc.Notify(ctx, user, "One", "first", entities.SeverityInfo)
	require.NoError(t, err)
	_, err = uc.Notify(ctx, user, "Two", "second", entities.SeverityInfo)
	require.NoError(t, err)

	list, err := uc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Two", list[0].Title)

	count, err := uc.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, uc.MarkRead(ctx, user, first.ID))
	require.NoError(t, uc.MarkRead(ctx, user, first.ID))
	count, err = uc.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.ErrorIs(t, uc.MarkRead(ctx, uuid.New(), first.ID), domainerrors.ErrNotFound)

	require.NoError(t, uc.MarkAllRead(ctx, user))
	count, err = uc.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationUsecase_HandleLedgerEvent_RejectionWithoutInitiator(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := usecases.NewNotificationUsecase(repo)

	err := uc.HandleLedgerEvent(context.Background(), &entities.LedgerEvent{
		Operation: entities.OperationTransfer,
		Err:       domainerrors.ErrInsufficientFunds,
	})
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestNotificationUsecase_HandleLedgerEvent_DepositSuccess(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := usecases.NewNotificationUsecase(repo)
	owner := uuid.New()

	repo.On("Add", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
		return n.UserID == owner &&
			n.Title == "Deposit successful" &&
			n.Message == "Account 19001001 was credited 2,000,000 VND" &&
			n.Severity == entities.SeveritySuccess
	})).Return(nil).Once()

	err := uc.HandleLedgerEvent(context.Background(), &entities.LedgerEvent{
		Operation:     entities.OperationDeposit,
		Amount:        2_000_000,
		AccountNumber: "19001001",
		CreditedOwner: &owner,
		Transaction:   &entities.Transaction{ID: uuid.New()},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotificationUsecase_HandleLedgerEvent_StoreError(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := usecases.NewNotificationUsecase(repo)
	initiator := uuid.New()
	storeErr := errors.New("redis down")

	repo.On("Add", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
		return n.Title == "Withdrawal failed" && n.Message == "Account is locked"
	})).Return(storeErr).Once()

	err := uc.HandleLedgerEvent(context.Background(), &entities.LedgerEvent{
		Operation:   entities.OperationWithdraw,
		InitiatorID: initiator,
		Err:         domainerrors.ErrAccountInactive,
	})
	assert.ErrorIs(t, err, storeErr)
}
