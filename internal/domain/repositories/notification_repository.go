package repositories

import (
	"context"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
)

// NotificationRepository keeps a bounded, newest-first list per user.
type NotificationRepository interface {
	// Add prepends n and evicts the oldest entries beyond the configured cap.
	Add(ctx context.Context, n *entities.Notification) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
