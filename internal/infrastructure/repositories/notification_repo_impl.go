package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/infrastructure/models"
	"vnbank.backend/pkg/utils"
)

const defaultNotificationLimit = 50

// NotificationRepository stores notifications in SQL, keeping at most limit per user
type NotificationRepository struct {
	db    *gorm.DB
	limit int
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB, limit int) *NotificationRepository {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return &NotificationRepository{db: db, limit: limit}
}

// Add stores n and prunes the user's oldest notifications beyond the limit
func (r *NotificationRepository) Add(ctx context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = utils.GenerateUUIDv7()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	db := GetDB(ctx, r.db)
	m := &models.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Severity:  string(n.Severity),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if err := db.Create(m).Error; err != nil {
		return err
	}

	var ids []uuid.UUID
	if err := r.newestFirst(db, n.UserID).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) <= r.limit {
		return nil
	}
	return db.Where("id IN ?", ids[r.limit:]).Delete(&models.Notification{}).Error
}

// ListByUserID lists the user's notifications, newest first
func (r *NotificationRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	var ms []models.Notification
	if err := r.newestFirst(GetDB(ctx, r.db), userID).Find(&ms).Error; err != nil {
		return nil, err
	}
	list := make([]*entities.Notification, len(ms))
	for i := range ms {
		list[i] = notificationToEntity(&ms[i])
	}
	return list, nil
}

// MarkRead marks one of the user's notifications as read
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
	}
	return nil
}

// MarkAllRead marks every notification of the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) newestFirst(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Model(&models.Notification{}).Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc")
}

func notificationToEntity(m *models.Notification) *entities.Notification {
	return &entities.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Message:   m.Message,
		Severity:  entities.NotificationSeverity(m.Severity),
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
