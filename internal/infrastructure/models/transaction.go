package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction rows are insert-only; Seq orders rows that share a timestamp.
type Transaction struct {
	Seq           int64      `gorm:"primaryKey;autoIncrement"`
	ID            uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	FromAccountID *uuid.UUID `gorm:"type:uuid;index"`
	ToAccountID   *uuid.UUID `gorm:"type:uuid;index"`
	Amount        int64      `gorm:"not null"`
	Type          string     `gorm:"type:varchar(32);not null"`
	Description   string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"index"`
}

func (Transaction) TableName() string {
	return "ledger_transactions"
}
