package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
)

func TestUnitOfWork_DoCommitAndRollback(t *testing.T) {
	db := newMigratedDB(t)
	u := &UnitOfWorkImpl{db: db}
	ledger := NewTransactionRepository(db)
	acct := uuid.New()

	err := u.Do(context.Background(), func(ctx context.Context) error {
		_, err := ledger.Append(ctx, &entities.Transaction{ToAccountID: &acct, Amount: 10, Type: entities.TransactionTypeDeposit})
		return err
	})
	require.NoError(t, err)

	count, err := ledger.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	err = u.Do(context.Background(), func(ctx context.Context) error {
		if _, err := ledger.Append(ctx, &entities.Transaction{ToAccountID: &acct, Amount: 20, Type: entities.TransactionTypeDeposit}); err != nil {
			return err
		}
		return errors.New("force rollback")
	})
	require.EqualError(t, err, "force rollback")

	count, err = ledger.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count, "second append must be rolled back")
}

func TestUnitOfWork_NestedDoJoinsOuter(t *testing.T) {
	db := newMigratedDB(t)
	u := &UnitOfWorkImpl{db: db}

	err := u.Do(context.Background(), func(outer context.Context) error {
		outerTx := outer.Value(txKey)
		return u.Do(outer, func(inner context.Context) error {
			require.Equal(t, outerTx, inner.Value(txKey))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestUnitOfWork_WithLockAndGetDB(t *testing.T) {
	db := newTestDB(t)
	u := &UnitOfWorkImpl{db: db}

	ctx := u.WithLock(context.Background())
	locked, _ := ctx.Value(lockKey).(bool)
	require.True(t, locked)
	require.NotNil(t, lockingDB(ctx, db))

	require.Equal(t, db.Statement.ConnPool, u.GetDB(context.Background()).Statement.ConnPool)

	tx := db.Begin()
	txCtx := context.WithValue(context.Background(), txKey, tx)
	require.Equal(t, tx.Statement.ConnPool, u.GetDB(txCtx).Statement.ConnPool)
	tx.Rollback()
}

func TestUnitOfWork_DoBeginFailure(t *testing.T) {
	db := newTestDB(t)
	u := &UnitOfWorkImpl{db: db}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = u.Do(context.Background(), func(ctx context.Context) error {
		_ = ctx
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to begin transaction")
}

func TestUnitOfWork_DoCommitFailure_WithHook(t *testing.T) {
	db := newMigratedDB(t)
	u := &UnitOfWorkImpl{db: db}

	origCommit := commitTx
	t.Cleanup(func() { commitTx = origCommit })
	commitTx = func(tx *gorm.DB) error {
		_ = tx
		return errors.New("forced commit fail")
	}

	err := u.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to commit transaction")
}

func TestUnitOfWork_SQLiteLockErrorsBecomeBusy(t *testing.T) {
	db := newMigratedDB(t)
	u := &UnitOfWorkImpl{db: db}

	for _, code := range []sqlite3.ErrNo{sqlite3.ErrBusy, sqlite3.ErrLocked} {
		err := u.Do(context.Background(), func(ctx context.Context) error {
			return fmt.Errorf("update balance: %w", sqlite3.Error{Code: code})
		})
		require.ErrorIs(t, err, domainerrors.ErrBusy)
	}

	origCommit := commitTx
	t.Cleanup(func() { commitTx = origCommit })
	commitTx = func(*gorm.DB) error { return sqlite3.Error{Code: sqlite3.ErrBusy} }
	err := u.Do(context.Background(), func(ctx context.Context) error { return nil })
	require.ErrorIs(t, err, domainerrors.ErrBusy)

	other := errors.New("disk full")
	require.Equal(t, other, busyAsDomain(other))
}
