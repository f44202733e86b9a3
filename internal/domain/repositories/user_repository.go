package repositories

import (
	"context"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
)

// UserRepository defines user directory operations. Soft-deleted users are
// invisible to every lookup.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByPhone(ctx context.Context, phone string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]*entities.User, error)
}
