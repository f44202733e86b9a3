package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Phone        string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	NationalID   string    `gorm:"type:varchar(20)"`
	Role         string    `gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
	Address      *string   `gorm:"type:varchar(255)"`
	Email        *string   `gorm:"type:varchar(255)"`
	Department   *string   `gorm:"type:varchar(100)"`
	Position     *string   `gorm:"type:varchar(100)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
