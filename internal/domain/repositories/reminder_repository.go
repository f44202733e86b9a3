package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
)

// ReminderRepository defines reminder persistence
type ReminderRepository interface {
	Create(ctx context.Context, reminder *entities.Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Reminder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Reminder, error)
	List(ctx context.Context) ([]*entities.Reminder, error)
	ListDue(ctx context.Context, now time.Time) ([]*entities.Reminder, error)
	UpdateNextDue(ctx context.Context, id uuid.UUID, next time.Time) error
}
