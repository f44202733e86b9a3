package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/pkg/utils"
)

// UserRepository is an in-memory user directory
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*entities.User
	now   func() time.Time
}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[uuid.UUID]*entities.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new user. Phones stay reserved after soft delete.
func (r *UserRepository) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Phone == user.Phone {
			return domainerrors.ErrDuplicatePhone
		}
	}
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[stored.ID] = &stored
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return nil, domainerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByPhone gets a user by phone
func (r *UserRepository) GetByPhone(_ context.Context, phone string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Phone == phone && !u.IsDeleted {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

// Update replaces the stored profile
func (r *UserRepository) Update(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok || existing.IsDeleted {
		return domainerrors.ErrNotFound
	}
	updated := *user
	updated.Phone = existing.Phone
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.now()
	r.users[user.ID] = &updated
	return nil
}

// SoftDelete hides the user from every lookup
func (r *UserRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return domainerrors.ErrNotFound
	}
	u.IsDeleted = true
	u.UpdatedAt = r.now()
	return nil
}

// List lists users with optional search filter on name or phone
func (r *UserRepository) List(_ context.Context, search string) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(search))
	result := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		if u.IsDeleted {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(u.Name), needle) && !strings.Contains(u.Phone, needle) {
			continue
		}
		cp := *u
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}
