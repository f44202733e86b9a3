package entities

import (
	"time"

	"github.com/google/uuid"
)

// LedgerOperation names a money-movement operation
type LedgerOperation string

const (
	OperationDeposit  LedgerOperation = "deposit"
	OperationWithdraw LedgerOperation = "withdraw"
	OperationTransfer LedgerOperation = "transfer"
)

// LedgerEvent is emitted once per money-movement attempt, after commit or rejection.
type LedgerEvent struct {
	Operation     LedgerOperation
	InitiatorID   uuid.UUID
	Amount        int64
	AccountNumber string
	Counterparty  string
	Transaction   *Transaction
	DebitedOwner  *uuid.UUID
	CreditedOwner *uuid.UUID
	Err           error
	OccurredAt    time.Time
}

// Succeeded reports whether the operation was committed
func (e *LedgerEvent) Succeeded() bool {
	return e.Err == nil && e.Transaction != nil
}

// AffectedOwners returns the distinct owners whose balance changed
func (e *LedgerEvent) AffectedOwners() []uuid.UUID {
	var owners []uuid.UUID
	if e.DebitedOwner != nil {
		owners = append(owners, *e.DebitedOwner)
	}
	if e.CreditedOwner != nil && (e.DebitedOwner == nil || *e.DebitedOwner != *e.CreditedOwner) {
		owners = append(owners, *e.CreditedOwner)
	}
	return owners
}
