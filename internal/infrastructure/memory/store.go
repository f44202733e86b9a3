// Package memory holds the in-process storage backend. Accounts and the
// ledger share one Store so a unit of work can publish balance changes and
// ledger records in a single critical section.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	domainRepos "vnbank.backend/internal/domain/repositories"
	"vnbank.backend/pkg/utils"
)

// Store holds accounts and the transaction ledger.
type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]*entities.Account
	byNumber     map[string]uuid.UUID
	accountOrder []uuid.UUID
	ledger       []*entities.Transaction
	ledgerByID   map[uuid.UUID]*entities.Transaction
	seq          int64
	now          func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		accounts:   make(map[uuid.UUID]*entities.Account),
		byNumber:   make(map[string]uuid.UUID),
		ledgerByID: make(map[uuid.UUID]*entities.Transaction),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type journalKey struct{}

// journal stages writes made inside a unit of work until commit.
type journal struct {
	deltas  map[uuid.UUID]int64
	order   []uuid.UUID
	appends []*entities.Transaction
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

func (j *journal) stageDelta(id uuid.UUID, delta int64) {
	if _, ok := j.deltas[id]; !ok {
		j.order = append(j.order, id)
	}
	j.deltas[id] += delta
}

// UnitOfWork implements UnitOfWork over a Store
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(store *Store) domainRepos.UnitOfWork {
	return &UnitOfWork{store: store}
}

// Do runs fn with a fresh journal and commits it if fn succeeds.
// Nested calls join the outer unit.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}
	j := &journal{deltas: make(map[uuid.UUID]int64)}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		return err
	}
	return u.store.commit(j)
}

// WithLock is a no-op; callers serialize through the account locker.
func (u *UnitOfWork) WithLock(ctx context.Context) context.Context {
	return ctx
}

func (s *Store) commit(j *journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[uuid.UUID]int64, len(j.order))
	for _, id := range j.order {
		acct, ok := s.accounts[id]
		if !ok {
			return domainerrors.ErrAccountNotFound
		}
		if err := checkDelta(acct, j.deltas[id]); err != nil {
			return err
		}
		next[id] = acct.Balance + j.deltas[id]
	}

	now := s.now()
	for id, balance := range next {
		s.accounts[id].Balance = balance
		s.accounts[id].UpdatedAt = now
	}
	for _, tx := range j.appends {
		s.appendLocked(tx, now)
	}
	return nil
}

func (s *Store) appendLocked(tx *entities.Transaction, now time.Time) {
	s.seq++
	tx.Seq = s.seq
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	stored := *tx
	s.ledger = append(s.ledger, &stored)
	s.ledgerByID[stored.ID] = &stored
}

// AccountRepository implements AccountRepository over a Store
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stores a new account
func (r *AccountRepository) Create(_ context.Context, account *entities.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byNumber[account.AccountNumber]; exists {
		return domainerrors.ErrAlreadyExists
	}
	if account.ID == uuid.Nil {
		account.ID = utils.GenerateUUIDv7()
	}
	now := s.now()
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := *account
	s.accounts[stored.ID] = &stored
	s.byNumber[stored.AccountNumber] = stored.ID
	s.accountOrder = append(s.accountOrder, stored.ID)
	return nil
}

// GetByID returns the account, including deltas staged by the current unit of work
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(ctx, id)
}

// GetByNumber returns the account with the given number
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*entities.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[number]
	if !ok {
		return nil, domainerrors.ErrAccountNotFound
	}
	return s.snapshotLocked(ctx, id)
}

func (s *Store) snapshotLocked(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	acct, ok := s.accounts[id]
	if !ok {
		return nil, domainerrors.ErrAccountNotFound
	}
	cp := *acct
	if j := journalFrom(ctx); j != nil {
		cp.Balance += j.deltas[id]
	}
	return &cp, nil
}

// ListByUserID returns the user's accounts, oldest first
func (r *AccountRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Account, error) {
	return r.list(ctx, func(a *entities.Account) bool { return a.UserID == userID }), nil
}

// List returns every account, oldest first
func (r *AccountRepository) List(ctx context.Context) ([]*entities.Account, error) {
	return r.list(ctx, func(*entities.Account) bool { return true }), nil
}

func (r *AccountRepository) list(ctx context.Context, keep func(*entities.Account) bool) []*entities.Account {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*entities.Account, 0)
	for _, id := range s.accountOrder {
		if !keep(s.accounts[id]) {
			continue
		}
		cp, _ := s.snapshotLocked(ctx, id)
		result = append(result, cp)
	}
	return result
}

// ApplyDelta adds delta to the balance. Inside a unit of work the change is
// staged and becomes visible to other callers only at commit.
func (r *AccountRepository) ApplyDelta(ctx context.Context, id uuid.UUID, delta int64) (*entities.Account, error) {
	s := r.store
	if j := journalFrom(ctx); j != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		acct, err := s.snapshotLocked(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := checkDelta(acct, delta); err != nil {
			return nil, err
		}
		j.stageDelta(id, delta)
		acct.Balance += delta
		return acct, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return nil, domainerrors.ErrAccountNotFound
	}
	if err := checkDelta(acct, delta); err != nil {
		return nil, err
	}
	acct.Balance += delta
	acct.UpdatedAt = s.now()
	cp := *acct
	return &cp, nil
}

func checkDelta(acct *entities.Account, delta int64) error {
	if !acct.IsActive {
		return domainerrors.ErrAccountInactive
	}
	if delta > 0 && acct.Balance > math.MaxInt64-delta {
		return domainerrors.ErrInvalidAmount
	}
	if acct.Balance+delta < 0 {
		return domainerrors.ErrInsufficientFunds
	}
	return nil
}

// SetActive sets the active flag; setting the current value is a no-op
func (r *AccountRepository) SetActive(_ context.Context, id uuid.UUID, active bool) (*entities.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return nil, domainerrors.ErrAccountNotFound
	}
	if acct.IsActive != active {
		acct.IsActive = active
		acct.UpdatedAt = s.now()
	}
	cp := *acct
	return &cp, nil
}

// TransactionRepository implements the ledger over a Store
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Append adds tx to the ledger, or stages it when called inside a unit of work
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
	if j := journalFrom(ctx); j != nil {
		j.appends = append(j.appends, tx)
		return tx.ID, nil
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(tx, s.now())
	return tx.ID, nil
}

// GetByID returns a committed transaction
func (r *TransactionRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.ledgerByID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

// ListByAccount returns committed transactions touching the account, newest first
func (r *TransactionRepository) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*entities.Transaction, error) {
	s := r.store
	s.mu.RLock()
	result := make([]*entities.Transaction, 0)
	for _, tx := range s.ledger {
		if tx.Touches(accountID) {
			cp := *tx
			result = append(result, &cp)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].Seq > result[j].Seq
	})
	return result, nil
}

// Count returns the number of committed transactions
func (r *TransactionRepository) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.ledger)), nil
}
