package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of money movement recorded in the ledger
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "DEPOSIT"
	TransactionTypeDepositATM       TransactionType = "DEPOSIT_ATM"
	TransactionTypeDepositQR        TransactionType = "DEPOSIT_QR"
	TransactionTypeWithdrawATM      TransactionType = "WITHDRAW_ATM"
	TransactionTypeWithdrawExternal TransactionType = "WITHDRAW_EXTERNAL"
	TransactionTypeTransfer         TransactionType = "TRANSFER"
)

// IsDeposit reports whether t credits money from outside the bank
func (t TransactionType) IsDeposit() bool {
	return strings.Contains(string(t), "DEPOSIT")
}

// Transaction is an immutable ledger record. Seq is assigned by the ledger on append.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Seq           int64           `json:"seq"`
	FromAccountID *uuid.UUID      `json:"fromAccountId,omitempty"`
	ToAccountID   *uuid.UUID      `json:"toAccountId,omitempty"`
	Amount        int64           `json:"amount"`
	Type          TransactionType `json:"type"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Touches reports whether the transaction debits or credits accountID
func (t *Transaction) Touches(accountID uuid.UUID) bool {
	return (t.FromAccountID != nil && *t.FromAccountID == accountID) ||
		(t.ToAccountID != nil && *t.ToAccountID == accountID)
}

// LegDirection is the side of a transaction seen from one account
type LegDirection string

const (
	LegDebit  LegDirection = "DEBIT"
	LegCredit LegDirection = "CREDIT"
)

// HistoryLeg is the per-account projection of a transaction
type HistoryLeg struct {
	ID            string          `json:"id"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Seq           int64           `json:"seq"`
	AccountID     uuid.UUID       `json:"accountId"`
	Direction     LegDirection    `json:"direction"`
	Type          TransactionType `json:"type"`
	Label         string          `json:"label"`
	Amount        int64           `json:"amount"`
	Counterparty  *uuid.UUID      `json:"counterpartyAccountId,omitempty"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SignedAmount is negative for debits
func (l HistoryLeg) SignedAmount() int64 {
	if l.Direction == LegDebit {
		return -l.Amount
	}
	return l.Amount
}

// Legs expands the transaction into the debit and/or credit legs seen by accountID.
func (t *Transaction) Legs(accountID uuid.UUID) []HistoryLeg {
	var legs []HistoryLeg
	if t.FromAccountID != nil && *t.FromAccountID == accountID {
		legs = append(legs, HistoryLeg{
			ID:            t.ID.String() + "_debit",
			TransactionID: t.ID,
			Seq:           t.Seq,
			AccountID:     accountID,
			Direction:     LegDebit,
			Type:          t.Type,
			Label:         debitLabel(t.Type),
			Amount:        t.Amount,
			Counterparty:  t.ToAccountID,
			Description:   t.Description,
			CreatedAt:     t.CreatedAt,
		})
	}
	if t.ToAccountID != nil && *t.ToAccountID == accountID {
		legs = append(legs, HistoryLeg{
			ID:            t.ID.String() + "_credit",
			TransactionID: t.ID,
			Seq:           t.Seq,
			AccountID:     accountID,
			Direction:     LegCredit,
			Type:          t.Type,
			Label:         creditLabel(t.Type),
			Amount:        t.Amount,
			Counterparty:  t.FromAccountID,
			Description:   t.Description,
			CreatedAt:     t.CreatedAt,
		})
	}
	return legs
}

func debitLabel(t TransactionType) string {
	switch t {
	case TransactionTypeWithdrawATM:
		return "ATM withdrawal"
	case TransactionTypeWithdrawExternal:
		return "Withdrawal"
	default:
		return "Transfer out"
	}
}

func creditLabel(t TransactionType) string {
	switch {
	case t.IsDeposit():
		return "Deposit"
	case t == TransactionTypeTransfer:
		return "Incoming transfer"
	default:
		return "Received"
	}
}

// DepositInput credits an account from outside the bank
type DepositInput struct {
	InitiatorID uuid.UUID       `json:"-"`
	AccountID   uuid.UUID       `json:"-"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
}

// WithdrawChannel selects how money leaves the bank
type WithdrawChannel string

const (
	WithdrawChannelExternal WithdrawChannel = "EXTERNAL"
	WithdrawChannelATM      WithdrawChannel = "ATM"
)

// WithdrawInput debits an account to outside the bank
type WithdrawInput struct {
	InitiatorID uuid.UUID       `json:"-"`
	AccountID   uuid.UUID       `json:"-"`
	Amount      int64           `json:"amount"`
	Channel     WithdrawChannel `json:"channel"`
	Description string          `json:"description"`
}

// TransferInput moves money between two accounts of this bank
type TransferInput struct {
	InitiatorID     uuid.UUID `json:"-"`
	FromAccountID   uuid.UUID `json:"fromAccountId" binding:"required"`
	ToAccountNumber string    `json:"toAccountNumber" binding:"required"`
	Amount          int64     `json:"amount"`
	Note            string    `json:"note"`
	IdempotencyKey  string    `json:"-"`
}
