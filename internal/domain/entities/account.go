package entities

import (
	"time"

	"github.com/google/uuid"
)

// AccountType represents the product type of a bank account
type AccountType string

const (
	AccountTypePayment  AccountType = "PAYMENT"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeBusiness AccountType = "BUSINESS"
)

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypePayment, AccountTypeSavings, AccountTypeBusiness:
		return true
	}
	return false
}

// NumberPrefix returns the account number prefix used for t
func (t AccountType) NumberPrefix() string {
	if t == AccountTypeBusiness {
		return "88"
	}
	return "19"
}

// Account is a bank account. Balance is in minor currency units and never negative.
type Account struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"userId"`
	AccountNumber string      `json:"accountNumber"`
	Balance       int64       `json:"balance"`
	IsActive      bool        `json:"isActive"`
	Type          AccountType `json:"type"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OpenAccountInput represents staff/admin account opening; Type is optional
type OpenAccountInput struct {
	Type AccountType `json:"type"`
}

// SetAccountStatusInput toggles an account's active flag
type SetAccountStatusInput struct {
	Active *bool `json:"active" binding:"required"`
}
