package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/infrastructure/memory"
	"vnbank.backend/internal/usecases"
)

func staffInput(phone string, role entities.UserRole) *entities.CreateUserInput {
	return &entities.CreateUserInput{
		Name:       "Pham Van Cuong",
		Phone:      phone,
		Password:   "secret1",
		NationalID: "001",
		Role:       role,
		Department: "Operations",
	}
}

func TestUserUsecase_CreateUser_Roles(t *testing.T) {
	uc := usecases.NewUserUsecase(memory.NewUserRepository())
	ctx := context.Background()

	customer, err := uc.CreateUser(ctx, entities.UserRoleStaff, staffInput("0911000001", ""))
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleCustomer, customer.Role)
	assert.Equal(t, "Operations", customer.Department.String)

	_, err = uc.CreateUser(ctx, entities.UserRoleStaff, staffInput("0911000002", entities.UserRoleStaff))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	staff, err := uc.CreateUser(ctx, entities.UserRoleAdmin, staffInput("0911000002", entities.UserRoleStaff))
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleStaff, staff.Role)

	_, err = uc.CreateUser(ctx, entities.UserRoleAdmin, staffInput("0911000003", "ROOT"))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.CreateUser(ctx, entities.UserRoleAdmin, staffInput("0911000001", ""))
	assert.ErrorIs(t, err, domainerrors.ErrDuplicatePhone)
}

func TestUserUsecase_UpdateUser(t *testing.T) {
	uc := usecases.NewUserUsecase(memory.NewUserRepository())
	ctx := context.Background()
	user, err := uc.CreateUser(ctx, entities.UserRoleAdmin, staffInput("0911000001", ""))
	require.NoError(t, err)

	name := "Pham Van Dung"
	email := "dung@example.com"
	updated, err := uc.UpdateUser(ctx, entities.UserRoleStaff, user.ID, &entities.UpdateUserInput{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, email, updated.Email.String)
	assert.Equal(t, "0911000001", updated.Phone)

	role := entities.UserRoleAdmin
	_, err = uc.UpdateUser(ctx, entities.UserRoleStaff, user.ID, &entities.UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	empty := " "
	_, err = uc.UpdateUser(ctx, entities.UserRoleAdmin, user.ID, &entities.UpdateUserInput{Name: &empty})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.UpdateUser(ctx, entities.UserRoleAdmin, uuid.New(), &entities.UpdateUserInput{Name: &name})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserUsecase_SoftDeleteAndList(t *testing.T) {
	uc := usecases.NewUserUsecase(memory.NewUserRepository())
	ctx := context.Background()
	admin := uuid.New()

	a, err := uc.CreateUser(ctx, entities.UserRoleAdmin, staffInput("0911000001", ""))
	require.NoError(t, err)
	_, err = uc.CreateUser(ctx, entities.UserRoleAdmin, staffInput("0911000002", ""))
	require.NoError(t, err)

	list, err := uc.ListUsers(ctx, "0911000001")
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, uc.SoftDeleteUser(ctx, a.ID, a.ID), domainerrors.ErrInvalidInput)
	require.NoError(t, uc.SoftDeleteUser(ctx, admin, a.ID))

	_, err = uc.GetUser(ctx, a.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	list, err = uc.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
