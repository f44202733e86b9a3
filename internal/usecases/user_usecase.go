package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/domain/repositories"
	"vnbank.backend/pkg/crypto"
)

// UserUsecase is the staff-facing user directory
type UserUsecase struct {
	userRepo repositories.UserRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

// CreateUser provisions a user. Only admins may create staff or admins.
func (u *UserUsecase) CreateUser(ctx context.Context, actorRole entities.UserRole, input *entities.CreateUserInput) (*entities.User, error) {
	role := input.Role
	if role == "" {
		role = entities.UserRoleCustomer
	}
	if !role.Valid() {
		return nil, domainerrors.NewError("unknown role", domainerrors.ErrInvalidInput)
	}
	if role != entities.UserRoleCustomer && actorRole != entities.UserRoleAdmin {
		return nil, domainerrors.ErrForbidden
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: passwordHash,
		NationalID:   input.NationalID,
		Role:         role,
		Address:      optionalString(input.Address),
		Email:        optionalString(input.Email),
		Department:   optionalString(input.Department),
		Position:     optionalString(input.Position),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of input. Phone numbers never change.
func (u *UserUsecase) UpdateUser(ctx context.Context, actorRole entities.UserRole, id uuid.UUID, input *entities.UpdateUserInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && *input.Role != user.Role {
		if !input.Role.Valid() {
			return nil, domainerrors.NewError("unknown role", domainerrors.ErrInvalidInput)
		}
		if actorRole != entities.UserRoleAdmin {
			return nil, domainerrors.ErrForbidden
		}
		user.Role = *input.Role
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerrors.NewError("name must not be empty", domainerrors.ErrInvalidInput)
		}
		user.Name = name
	}
	if input.NationalID != nil {
		user.NationalID = *input.NationalID
	}
	if input.Address != nil {
		user.Address = optionalString(*input.Address)
	}
	if input.Email != nil {
		user.Email = optionalString(*input.Email)
	}
	if input.Department != nil {
		user.Department = optionalString(*input.Department)
	}
	if input.Position != nil {
		user.Position = optionalString(*input.Position)
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return u.userRepo.GetByID(ctx, id)
}

// SoftDeleteUser hides a user. Accounts and ledger history are kept.
func (u *UserUsecase) SoftDeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return domainerrors.NewError("cannot delete your own user", domainerrors.ErrInvalidInput)
	}
	return u.userRepo.SoftDelete(ctx, id)
}

// GetUser returns a user by ID
func (u *UserUsecase) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// ListUsers returns users matching search on name or phone
func (u *UserUsecase) ListUsers(ctx context.Context, search string) ([]*entities.User, error) {
	return u.userRepo.List(ctx, search)
}
