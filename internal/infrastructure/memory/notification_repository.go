package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
)

// NotificationRepository keeps per-user notifications newest first
type NotificationRepository struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]*entities.Notification
	limit  int
}

// NewNotificationRepository creates a repository keeping at most limit entries per user
func NewNotificationRepository(limit int) *NotificationRepository {
	if limit <= 0 {
		limit = 50
	}
	return &NotificationRepository{byUser: make(map[uuid.UUID][]*entities.Notification), limit: limit}
}

func (r *NotificationRepository) Add(_ context.Context, n *entities.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *n
	list := append([]*entities.Notification{&stored}, r.byUser[n.UserID]...)
	if len(list) > r.limit {
		list = list[:r.limit]
	}
	r.byUser[n.UserID] = list
	return nil
}

func (r *NotificationRepository) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byUser[userID]
	result := make([]*entities.Notification, 0, len(list))
	for _, n := range list {
		cp := *n
		result = append(result, &cp)
	}
	return result, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.byUser[userID] {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.byUser[userID] {
		n.IsRead = true
	}
	return nil
}
