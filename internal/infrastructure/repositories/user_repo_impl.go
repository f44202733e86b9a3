package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/infrastructure/models"
	"vnbank.backend/pkg/utils"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Phones of soft-deleted users stay reserved.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	db := GetDB(ctx, r.db)

	var taken int64
	if err := db.Unscoped().Model(&models.User{}).Where("phone = ?", user.Phone).Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return domainerrors.ErrDuplicatePhone
	}

	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	m := &models.User{
		ID:           user.ID,
		Name:         user.Name,
		Phone:        user.Phone,
		PasswordHash: user.PasswordHash,
		NationalID:   user.NationalID,
		Role:         string(user.Role),
		Address:      user.Address.Ptr(),
		Email:        user.Email.Ptr(),
		Department:   user.Department.Ptr(),
		Position:     user.Position.Ptr(),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrDuplicatePhone
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByPhone gets a user by phone number
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("phone = ?", phone).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update updates the mutable profile fields of a user
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"name":        user.Name,
		"national_id": user.NationalID,
		"role":        string(user.Role),
		"address":     user.Address.Ptr(),
		"email":       user.Email.Ptr(),
		"department":  user.Department.Ptr(),
		"position":    user.Position.Ptr(),
		"updated_at":  time.Now().UTC(),
	}

	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete soft deletes a user
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List returns users whose name or phone contains search, oldest first
func (r *UserRepository) List(ctx context.Context, search string) ([]*entities.User, error) {
	query := GetDB(ctx, r.db).Model(&models.User{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}

	var ms []models.User
	if err := query.Order("created_at asc").Order("id asc").Find(&ms).Error; err != nil {
		return nil, err
	}

	users := make([]*entities.User, len(ms))
	for i := range ms {
		users[i] = r.toEntity(&ms[i])
	}
	return users, nil
}

func (r *UserRepository) toEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:           m.ID,
		Name:         m.Name,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		NationalID:   m.NationalID,
		Role:         entities.UserRole(m.Role),
		Address:      null.StringFromPtr(m.Address),
		Email:        null.StringFromPtr(m.Email),
		Department:   null.StringFromPtr(m.Department),
		Position:     null.StringFromPtr(m.Position),
		IsDeleted:    m.DeletedAt.Valid,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
