package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/infrastructure/models"
	"vnbank.backend/pkg/utils"
)

// ReminderRepository implements reminder persistence
type ReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create creates a new reminder
func (r *ReminderRepository) Create(ctx context.Context, reminder *entities.Reminder) error {
	if reminder.ID == uuid.Nil {
		reminder.ID = utils.GenerateUUIDv7()
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now().UTC()
	}

	m := &models.Reminder{
		ID:              reminder.ID,
		UserID:          reminder.UserID,
		ToAccountNumber: reminder.ToAccountNumber,
		Amount:          reminder.Amount,
		Frequency:       string(reminder.Frequency),
		NextDueAt:       reminder.NextDueAt.UTC(),
		Description:     reminder.Description,
		CreatedAt:       reminder.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets a reminder by ID
func (r *ReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Reminder, error) {
	var m models.Reminder
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Delete removes a reminder
func (r *ReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.Reminder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListByUserID lists the user's reminders, earliest due first
func (r *ReminderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Reminder, error) {
	return r.find(GetDB(ctx, r.db).Where("user_id = ?", userID))
}

// List lists every reminder, earliest due first
func (r *ReminderRepository) List(ctx context.Context) ([]*entities.Reminder, error) {
	return r.find(GetDB(ctx, r.db))
}

// ListDue lists reminders with next_due_at <= now, earliest first
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*entities.Reminder, error) {
	return r.find(GetDB(ctx, r.db).Where("next_due_at <= ?", now.UTC()))
}

// UpdateNextDue moves the reminder's next due time
func (r *ReminderRepository) UpdateNextDue(ctx context.Context, id uuid.UUID, next time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.Reminder{}).Where("id = ?", id).Update("next_due_at", next.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ReminderRepository) find(query *gorm.DB) ([]*entities.Reminder, error) {
	var ms []models.Reminder
	if err := query.Order("next_due_at asc").Order("created_at asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	reminders := make([]*entities.Reminder, len(ms))
	for i := range ms {
		reminders[i] = r.toEntity(&ms[i])
	}
	return reminders, nil
}

func (r *ReminderRepository) toEntity(m *models.Reminder) *entities.Reminder {
	return &entities.Reminder{
		ID:              m.ID,
		UserID:          m.UserID,
		ToAccountNumber: m.ToAccountNumber,
		Amount:          m.Amount,
		Frequency:       entities.ReminderFrequency(m.Frequency),
		NextDueAt:       m.NextDueAt.UTC(),
		Description:     m.Description,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}
