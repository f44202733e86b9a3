package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/pkg/utils"
)

// ReminderRepository is an in-memory reminder store
type ReminderRepository struct {
	mu        sync.RWMutex
	reminders map[uuid.UUID]*entities.Reminder
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository() *ReminderRepository {
	return &ReminderRepository{reminders: make(map[uuid.UUID]*entities.Reminder)}
}

func (r *ReminderRepository) Create(_ context.Context, reminder *entities.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reminder.ID == uuid.Nil {
		reminder.ID = utils.GenerateUUIDv7()
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now().UTC()
	}
	stored := *reminder
	r.reminders[stored.ID] = &stored
	return nil
}

func (r *ReminderRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rem, ok := r.reminders[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *rem
	return &cp, nil
}

func (r *ReminderRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[id]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(r.reminders, id)
	return nil
}

func (r *ReminderRepository) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entities.Reminder, error) {
	return r.filter(func(rem *entities.Reminder) bool { return rem.UserID == userID }), nil
}

func (r *ReminderRepository) List(_ context.Context) ([]*entities.Reminder, error) {
	return r.filter(func(*entities.Reminder) bool { return true }), nil
}

// ListDue returns reminders due at now, earliest first
func (r *ReminderRepository) ListDue(_ context.Context, now time.Time) ([]*entities.Reminder, error) {
	return r.filter(func(rem *entities.Reminder) bool { return rem.IsDue(now) }), nil
}

func (r *ReminderRepository) UpdateNextDue(_ context.Context, id uuid.UUID, next time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	rem.NextDueAt = next
	return nil
}

func (r *ReminderRepository) filter(keep func(*entities.Reminder) bool) []*entities.Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entities.Reminder, 0)
	for _, rem := range r.reminders {
		if keep(rem) {
			cp := *rem
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].NextDueAt.Equal(result[j].NextDueAt) {
			return result[i].NextDueAt.Before(result[j].NextDueAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
