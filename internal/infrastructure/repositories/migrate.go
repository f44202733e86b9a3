package repositories

import (
	"gorm.io/gorm"
	"vnbank.backend/internal/infrastructure/models"
)

// AutoMigrate creates or updates the bank schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.Reminder{},
		&models.Notification{},
	)
}
