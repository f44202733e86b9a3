package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"vnbank.backend/internal/domain/entities"
	"vnbank.backend/internal/domain/repositories"
	"vnbank.backend/internal/infrastructure/locking"
	"vnbank.backend/internal/infrastructure/memory"
	"vnbank.backend/internal/usecases"
)

// ledgerFixture wires the real engine over the in-memory backend
type ledgerFixture struct {
	store         *memory.Store
	uow           repositories.UnitOfWork
	users         *memory.UserRepository
	accounts      *memory.AccountRepository
	ledger        *memory.TransactionRepository
	reminders     *memory.ReminderRepository
	notifications *memory.NotificationRepository
	notifier      *usecases.NotificationUsecase
	engine        *usecases.TransferUsecase
	locker        *locking.AccountLocker
}

func newLedgerFixture(t *testing.T, extra ...usecases.LedgerEventHandler) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	f := &ledgerFixture{
		store:         store,
		uow:           memory.NewUnitOfWork(store),
		users:         memory.NewUserRepository(),
		accounts:      memory.NewAccountRepository(store),
		ledger:        memory.NewTransactionRepository(store),
		reminders:     memory.NewReminderRepository(),
		notifications: memory.NewNotificationRepository(50),
		locker:        locking.NewAccountLocker(2 * time.Second),
	}
	f.notifier = usecases.NewNotificationUsecase(f.notifications)
	handlers := append([]usecases.LedgerEventHandler{f.notifier}, extra...)
	f.engine = usecases.NewTransferUsecase(
		f.uow,
		f.accounts,
		f.ledger,
		f.locker,
		memory.NewIdempotencyStore(time.Minute, time.Hour),
		handlers...,
	)
	return f
}

func (f *ledgerFixture) openAccount(t *testing.T, owner uuid.UUID, number string, balance int64) *entities.Account {
	t.Helper()
	acct := &entities.Account{
		UserID:        owner,
		AccountNumber: number,
		Balance:       balance,
		IsActive:      true,
		Type:          entities.AccountTypePayment,
	}
	require.NoError(t, f.accounts.Create(context.Background(), acct))
	return acct
}

func (f *ledgerFixture) balance(t *testing.T, id uuid.UUID) int64 {
	t.Helper()
	acct, err := f.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return acct.Balance
}

func (f *ledgerFixture) totalBalance(t *testing.T) int64 {
	t.Helper()
	all, err := f.accounts.List(context.Background())
	require.NoError(t, err)
	var sum int64
	for _, a := range all {
		sum += a.Balance
	}
	return sum
}

func (f *ledgerFixture) ledgerSize(t *testing.T) int64 {
	t.Helper()
	n, err := f.ledger.Count(context.Background())
	require.NoError(t, err)
	return n
}

func (f *ledgerFixture) notificationsFor(t *testing.T, userID uuid.UUID) []*entities.Notification {
	t.Helper()
	list, err := f.notifications.ListByUserID(context.Background(), userID)
	require.NoError(t, err)
	return list
}
