package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/infrastructure/memory"
	"vnbank.backend/internal/usecases"
)

func newReminderUsecase(f *ledgerFixture) *usecases.ReminderUsecase {
	return usecases.NewReminderUsecase(f.reminders, f.accounts, f.engine, f.notifier)
}

func TestReminderUsecase_Create_Validation(t *testing.T) {
	f := newLedgerFixture(t)
	uc := newReminderUsecase(f)
	ctx := context.Background()
	user := uuid.New()
	due := time.Now().Add(time.Hour)

	_, err := uc.Create(ctx, user, &entities.CreateReminderInput{ToAccountNumber: "1", Amount: 0, Frequency: entities.FrequencyDaily, NextDueAt: due})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	_, err = uc.Create(ctx, user, &entities.CreateReminderInput{ToAccountNumber: "1", Amount: 1, Frequency: "YEARLY", NextDueAt: due})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.Create(ctx, user, &entities.CreateReminderInput{ToAccountNumber: "  ", Amount: 1, Frequency: entities.FrequencyDaily, NextDueAt: due})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.Create(ctx, user, &entities.CreateReminderInput{ToAccountNumber: "1", Amount: 1, Frequency: entities.FrequencyDaily})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	r, err := uc.Create(ctx, user, &entities.CreateReminderInput{ToAccountNumber: " 19002002 ", Amount: 1, Frequency: entities.FrequencyDaily, NextDueAt: due})
	require.NoError(t, err)
	assert.Equal(t, "19002002", r.ToAccountNumber)
	assert.NotEqual(t, uuid.Nil, r.ID)
}

func TestReminderUsecase_Delete_Ownership(t *testing.T) {
	f := newLedgerFixture(t)
	uc := newReminderUsecase(f)
	ctx := context.Background()
	owner := uuid.New()

	r, err := uc.Create(ctx, owner, &entities.CreateReminderInput{ToAccountNumber: "19002002", Amount: 1, Frequency: entities.FrequencyDaily, NextDueAt: time.Now()})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, uuid.New(), entities.UserRoleCustomer, r.ID), domainerrors.ErrForbidden)
	assert.NoError(t, uc.Delete(ctx, uuid.New(), entities.UserRoleStaff, r.ID))
	assert.ErrorIs(t, uc.Delete(ctx, owner, entities.UserRoleCustomer, r.ID), domainerrors.ErrNotFound)
}

func TestReminderUsecase_ProcessDue_FiresAndAdvances(t *testing.T) {
	f := newLedgerFixture(t)
	uc := newReminderUsecase(f)
	ctx := context.Background()
	owner := uuid.New()
	savings := &entities.Account{UserID: owner, AccountNumber: "19009999", IsActive: true, Type: entities.AccountTypeSavings}
	require.NoError(t, f.accounts.Create(ctx, savings))
	payment := &entities.Account{UserID: owner, AccountNumber: "19001001", Balance: 1_000_000, IsActive: true, Type: entities.AccountTypePayment}
	require.NoError(t, f.accounts.Create(ctx, payment))
	f.openAccount(t, uuid.New(), "88880001", 0)

	now := time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC)
	r, err := uc.Create(ctx, owner, &entities.CreateReminderInput{
		ToAccountNumber: "88880001", Amount: 250_000, Frequency: entities.FrequencyMonthly, NextDueAt: now.Add(-time.Minute), Description: "Rent",
	})
	require.NoError(t, err)

	summary, err := uc.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, entities.ReminderRunSummary{Due: 1, Fired: 1}, summary)
	assert.Equal(t, int64(750_000), f.balance(t, payment.ID))
	assert.Equal(t, int64(0), f.balance(t, savings.ID))

	stored, err := f.reminders.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 8, 59, 0, 0, time.UTC), stored.NextDueAt)

	summary, err = uc.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, entities.ReminderRunSummary{}, summary)
	assert.Equal(t, int64(1), f.ledgerSize(t))
}

func TestReminderUsecase_ProcessDue_FailureKeepsDueDate(t *testing.T) {
	f := newLedgerFixture(t)
	uc := newReminderUsecase(f)
	ctx := context.Background()
	owner := uuid.New()
	f.openAccount(t, owner, "19001001", 100)
	f.openAccount(t, uuid.New(), "88880001", 0)

	due := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	r, err := uc.Create(ctx, owner, &entities.CreateReminderInput{
		ToAccountNumber: "88880001", Amount: 500, Frequency: entities.FrequencyDaily, NextDueAt: due,
	})
	require.NoError(t, err)

	summary, err := uc.ProcessDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, entities.ReminderRunSummary{Due: 1, Failed: 1}, summary)

	stored, err := f.reminders.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, stored.NextDueAt.Equal(due))

	list := f.notificationsFor(t, owner)
	require.Len(t, list, 1)
	assert.Equal(t, "Transfer failed", list[0].Title)
	assert.Equal(t, "Insufficient balance", list[0].Message)
}

func TestReminderUsecase_ProcessDue_NoActiveAccount(t *testing.T) {
	f := newLedgerFixture(t)
	uc := newReminderUsecase(f)
	ctx := context.Background()
	owner := uuid.New()
	acct := f.openAccount(t, owner, "19001001", 1_000)
	_, err := f.accounts.SetActive(ctx, acct.ID, false)
	require.NoError(t, err)

	_, err = uc.Create(ctx, owner, &entities.CreateReminderInput{
		ToAccountNumber: "88880001", Amount: 10, Frequency: entities.FrequencyWeekly, NextDueAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	summary, err := uc.ProcessDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	list := f.notificationsFor(t, owner)
	require.Len(t, list, 1)
	assert.Equal(t, "Scheduled payment failed", list[0].Title)
	assert.Equal(t, entities.SeverityError, list[0].Severity)
}

func TestReminderUsecase_ProcessDue_UsesPerDueDateKey(t *testing.T) {
	reminders := memory.NewReminderRepository()
	accountRepo := new(MockAccountRepository)
	transfers := new(MockTransferer)
	uc := usecases.NewReminderUsecase(reminders, accountRepo, transfers, nil)
	ctx := context.Background()

	owner := uuid.New()
	due := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	r := &entities.Reminder{UserID: owner, ToAccountNumber: "88880001", Amount: 10, Frequency: entities.FrequencyDaily, NextDueAt: due}
	require.NoError(t, reminders.Create(ctx, r))

	savings := &entities.Account{ID: uuid.New(), UserID: owner, IsActive: true, Type: entities.AccountTypeSavings}
	payment := &entities.Account{ID: uuid.New(), UserID: owner, IsActive: true, Type: entities.AccountTypePayment}
	accountRepo.On("ListByUserID", ctx, owner).Return([]*entities.Account{savings, payment}, nil)

	transfers.On("Transfer", ctx, mock.MatchedBy(func(in *entities.TransferInput) bool {
		return in.FromAccountID == payment.ID &&
			in.IdempotencyKey == "reminder:"+r.ID.String()+":1709280000"
	})).Return(nil, errors.New("temporary")).Once()

	summary, err := uc.ProcessDue(ctx, due)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	transfers.AssertExpectations(t)
}
