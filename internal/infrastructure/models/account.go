package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AccountNumber string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Balance       int64     `gorm:"not null;default:0"`
	IsActive      bool      `gorm:"not null;default:true"`
	Type          string    `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Account) TableName() string {
	return "bank_accounts"
}
