package models

import (
	"time"

	"github.com/google/uuid"
)

type Reminder struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ToAccountNumber string    `gorm:"type:varchar(20);not null"`
	Amount          int64     `gorm:"not null"`
	Frequency       string    `gorm:"type:varchar(10);not null"`
	NextDueAt       time.Time `gorm:"not null;index"`
	Description     string    `gorm:"type:varchar(255)"`
	CreatedAt       time.Time
}
