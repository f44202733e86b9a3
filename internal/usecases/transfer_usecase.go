package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/domain/repositories"
	"vnbank.backend/pkg/logger"
)

// AccountLocker grants exclusive access to a set of accounts
type AccountLocker interface {
	Lock(ctx context.Context, ids ...uuid.UUID) (func(), error)
}

// LedgerEventHandler reacts to committed or rejected money movements
type LedgerEventHandler interface {
	HandleLedgerEvent(ctx context.Context, event *entities.LedgerEvent) error
}

// errRelock means the destination resolved to an account that is not locked yet
var errRelock = errors.New("destination changed while locking")

var defaultDescriptions = map[entities.TransactionType]string{
	entities.TransactionTypeDeposit:          "Counter deposit",
	entities.TransactionTypeDepositATM:       "ATM cash deposit",
	entities.TransactionTypeDepositQR:        "QR code deposit",
	entities.TransactionTypeWithdrawATM:      "ATM cash withdrawal",
	entities.TransactionTypeWithdrawExternal: "External withdrawal",
}

// TransferUsecase moves money. It is the only writer of balances and the ledger.
type TransferUsecase struct {
	uow         repositories.UnitOfWork
	accountRepo repositories.AccountRepository
	ledger      repositories.TransactionRepository
	locker      AccountLocker
	idempotency repositories.IdempotencyStore
	handlers    []LedgerEventHandler
	now         func() time.Time
}

// NewTransferUsecase creates a new transfer usecase. idempotency may be nil,
// in which case idempotency keys are ignored.
func NewTransferUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	ledger repositories.TransactionRepository,
	locker AccountLocker,
	idempotency repositories.IdempotencyStore,
	handlers ...LedgerEventHandler,
) *TransferUsecase {
	return &TransferUsecase{
		uow:         uow,
		accountRepo: accountRepo,
		ledger:      ledger,
		locker:      locker,
		idempotency: idempotency,
		handlers:    handlers,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Deposit credits an account with money from outside the bank
func (u *TransferUsecase) Deposit(ctx context.Context, input *entities.DepositInput) (*entities.Transaction, error) {
	event := &entities.LedgerEvent{
		Operation:   entities.OperationDeposit,
		InitiatorID: input.InitiatorID,
		Amount:      input.Amount,
	}
	tx, err := u.deposit(ctx, input, event)
	u.dispatch(ctx, event, tx, err)
	return tx, err
}

func (u *TransferUsecase) deposit(ctx context.Context, input *entities.DepositInput, event *entities.LedgerEvent) (*entities.Transaction, error) {
	txType := input.Type
	if txType == "" {
		txType = entities.TransactionTypeDeposit
	}
	if !txType.IsDeposit() {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	unlock, err := u.locker.Lock(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	record := &entities.Transaction{
		ToAccountID: &input.AccountID,
		Amount:      input.Amount,
		Type:        txType,
		Description: describe(input.Description, txType),
	}
	err = u.uow.Do(u.uow.WithLock(context.WithoutCancel(ctx)), func(txCtx context.Context) error {
		acct, err := u.accountRepo.GetByID(txCtx, input.AccountID)
		if err != nil {
			return err
		}
		event.AccountNumber = acct.AccountNumber
		if !acct.IsActive {
			return domainerrors.ErrAccountInactive
		}
		if _, err := u.accountRepo.ApplyDelta(txCtx, acct.ID, input.Amount); err != nil {
			return err
		}
		if _, err := u.ledger.Append(txCtx, record); err != nil {
			return err
		}
		owner := acct.UserID
		event.CreditedOwner = &owner
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// WithdrawExternal debits an account to an outside destination
func (u *TransferUsecase) WithdrawExternal(ctx context.Context, input *entities.WithdrawInput) (*entities.Transaction, error) {
	return u.Withdraw(ctx, input, entities.TransactionTypeWithdrawExternal)
}

// WithdrawATM debits an account for an ATM cash withdrawal
func (u *TransferUsecase) WithdrawATM(ctx context.Context, input *entities.WithdrawInput) (*entities.Transaction, error) {
	return u.Withdraw(ctx, input, entities.TransactionTypeWithdrawATM)
}

// Withdraw debits an account with the given withdrawal type
func (u *TransferUsecase) Withdraw(ctx context.Context, input *entities.WithdrawInput, txType entities.TransactionType) (*entities.Transaction, error) {
	event := &entities.LedgerEvent{
		Operation:   entities.OperationWithdraw,
		InitiatorID: input.InitiatorID,
		Amount:      input.Amount,
	}
	tx, err := u.withdraw(ctx, input, txType, event)
	u.dispatch(ctx, event, tx, err)
	return tx, err
}

func (u *TransferUsecase) withdraw(ctx context.Context, input *entities.WithdrawInput, txType entities.TransactionType, event *entities.LedgerEvent) (*entities.Transaction, error) {
	if txType != entities.TransactionTypeWithdrawATM && txType != entities.TransactionTypeWithdrawExternal {
		return nil, domainerrors.ErrInvalidInput
	}
	if input.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	unlock, err := u.locker.Lock(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	record := &entities.Transaction{
		FromAccountID: &input.AccountID,
		Amount:        input.Amount,
		Type:          txType,
		Description:   describe(input.Description, txType),
	}
	err = u.uow.Do(u.uow.WithLock(context.WithoutCancel(ctx)), func(txCtx context.Context) error {
		acct, err := u.accountRepo.GetByID(txCtx, input.AccountID)
		if err != nil {
			return err
		}
		event.AccountNumber = acct.AccountNumber
		if !acct.IsActive {
			return domainerrors.ErrAccountInactive
		}
		if acct.Balance < input.Amount {
			return domainerrors.ErrInsufficientFunds
		}
		if _, err := u.accountRepo.ApplyDelta(txCtx, acct.ID, -input.Amount); err != nil {
			return err
		}
		if _, err := u.ledger.Append(txCtx, record); err != nil {
			return err
		}
		owner := acct.UserID
		event.DebitedOwner = &owner
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Transfer moves money between two accounts of the bank. A non-empty
// IdempotencyKey makes retries of a completed transfer return the original
// transaction.
func (u *TransferUsecase) Transfer(ctx context.Context, input *entities.TransferInput) (*entities.Transaction, error) {
	var scopedKey string
	if input.IdempotencyKey != "" && u.idempotency != nil {
		scopedKey = fmt.Sprintf("transfer:%s:%s", input.FromAccountID, input.IdempotencyKey)
		value, reserved, err := u.idempotency.Reserve(ctx, scopedKey)
		if err != nil {
			return nil, err
		}
		if !reserved {
			return u.replay(ctx, value)
		}
	}

	event := &entities.LedgerEvent{
		Operation:    entities.OperationTransfer,
		InitiatorID:  input.InitiatorID,
		Amount:       input.Amount,
		Counterparty: input.ToAccountNumber,
	}
	tx, err := u.transfer(ctx, input, event)

	if scopedKey != "" {
		u.settleKey(ctx, scopedKey, tx, err)
	}
	u.dispatch(ctx, event, tx, err)
	return tx, err
}

func (u *TransferUsecase) replay(ctx context.Context, value string) (*entities.Transaction, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("stored idempotency value %q: %w", value, err)
	}
	return u.ledger.GetByID(ctx, id)
}

func (u *TransferUsecase) settleKey(ctx context.Context, key string, tx *entities.Transaction, err error) {
	ctx = context.WithoutCancel(ctx)
	if err != nil {
		if relErr := u.idempotency.Release(ctx, key); relErr != nil {
			logger.Error(ctx, "Failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
		}
		return
	}
	if cErr := u.idempotency.Complete(ctx, key, tx.ID.String()); cErr != nil {
		logger.Error(ctx, "Failed to complete idempotency key", zap.String("key", key), zap.Error(cErr))
	}
}

func (u *TransferUsecase) transfer(ctx context.Context, input *entities.TransferInput, event *entities.LedgerEvent) (*entities.Transaction, error) {
	if input.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	// Resolve the destination before locking so both accounts are locked in
	// one ordered acquisition.
	destID := uuid.Nil
	dest, err := u.accountRepo.GetByNumber(ctx, input.ToAccountNumber)
	switch {
	case err == nil:
		destID = dest.ID
	case !errors.Is(err, domainerrors.ErrAccountNotFound):
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		ids := []uuid.UUID{input.FromAccountID}
		if destID != uuid.Nil {
			ids = append(ids, destID)
		}
		unlock, err := u.locker.Lock(ctx, ids...)
		if err != nil {
			return nil, err
		}
		tx, resolved, err := u.commitTransfer(ctx, input, destID, event)
		unlock()
		if !errors.Is(err, errRelock) {
			return tx, err
		}
		destID = resolved
	}
	return nil, domainerrors.ErrBusy
}

// commitTransfer validates and applies a transfer while the accounts are locked.
func (u *TransferUsecase) commitTransfer(ctx context.Context, input *entities.TransferInput, lockedDest uuid.UUID, event *entities.LedgerEvent) (*entities.Transaction, uuid.UUID, error) {
	var resolved uuid.UUID
	record := &entities.Transaction{
		FromAccountID: &input.FromAccountID,
		Amount:        input.Amount,
		Type:          entities.TransactionTypeTransfer,
		Description:   input.Note,
	}
	if record.Description == "" {
		record.Description = "Transfer to " + input.ToAccountNumber
	}

	err := u.uow.Do(u.uow.WithLock(context.WithoutCancel(ctx)), func(txCtx context.Context) error {
		source, err := u.accountRepo.GetByID(txCtx, input.FromAccountID)
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return domainerrors.ErrSourceNotFound
		}
		if err != nil {
			return err
		}
		event.AccountNumber = source.AccountNumber
		if !source.IsActive {
			return domainerrors.ErrSourceInactive
		}
		if source.Balance < input.Amount {
			return domainerrors.ErrInsufficientFunds
		}

		dest, err := u.accountRepo.GetByNumber(txCtx, input.ToAccountNumber)
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return domainerrors.ErrDestinationNotFound
		}
		if err != nil {
			return err
		}
		if dest.ID != lockedDest && dest.ID != source.ID {
			resolved = dest.ID
			return errRelock
		}
		if !dest.IsActive {
			return domainerrors.ErrDestinationInactive
		}
		if source.ID == dest.ID {
			return domainerrors.ErrSelfTransfer
		}

		if _, err := u.accountRepo.ApplyDelta(txCtx, source.ID, -input.Amount); err != nil {
			return err
		}
		if _, err := u.accountRepo.ApplyDelta(txCtx, dest.ID, input.Amount); err != nil {
			return err
		}
		record.ToAccountID = &dest.ID
		if _, err := u.ledger.Append(txCtx, record); err != nil {
			return err
		}

		debited, credited := source.UserID, dest.UserID
		event.DebitedOwner = &debited
		event.CreditedOwner = &credited
		return nil
	})
	if err != nil {
		return nil, resolved, err
	}
	return record, resolved, nil
}

// History returns the account's ledger legs, newest first
func (u *TransferUsecase) History(ctx context.Context, accountID uuid.UUID) ([]entities.HistoryLeg, error) {
	if _, err := u.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	txs, err := u.ledger.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	legs := make([]entities.HistoryLeg, 0, len(txs))
	for _, tx := range txs {
		legs = append(legs, tx.Legs(accountID)...)
	}
	return legs, nil
}

func (u *TransferUsecase) dispatch(ctx context.Context, event *entities.LedgerEvent, tx *entities.Transaction, err error) {
	event.Transaction = tx
	event.Err = err
	event.OccurredAt = u.now()

	if err != nil {
		fields := []zap.Field{
			zap.String("operation", string(event.Operation)),
			zap.String("initiator_id", event.InitiatorID.String()),
			zap.Int64("amount", event.Amount),
			zap.Error(err),
		}
		if domainerrors.IsDomain(err) {
			logger.Warn(ctx, "Ledger operation rejected", fields...)
		} else {
			logger.Error(ctx, "Ledger operation failed", fields...)
		}
	}

	hctx := context.WithoutCancel(ctx)
	for _, h := range u.handlers {
		if herr := h.HandleLedgerEvent(hctx, event); herr != nil {
			logger.Error(ctx, "Ledger event handler failed",
				zap.String("operation", string(event.Operation)),
				zap.Error(herr),
			)
		}
	}
}

func describe(description string, txType entities.TransactionType) string {
	if description != "" {
		return description
	}
	return defaultDescriptions[txType]
}
