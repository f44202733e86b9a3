package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleStaff    UserRole = "STAFF"
	UserRoleAdmin    UserRole = "ADMIN"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleCustomer, UserRoleStaff, UserRoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r may act on other users' accounts
func (r UserRole) IsStaff() bool {
	return r == UserRoleStaff || r == UserRoleAdmin
}

// User represents a bank customer or employee
type User struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone"`
	PasswordHash string      `json:"-"`
	NationalID   string      `json:"nationalId"`
	Role         UserRole    `json:"role"`
	Address      null.String `json:"address"`
	Email        null.String `json:"email"`
	Department   null.String `json:"department"`
	Position     null.String `json:"position"`
	IsDeleted    bool        `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// RegisterInput represents self-service customer registration
type RegisterInput struct {
	Name            string `json:"name" binding:"required,min=2,max=100"`
	Phone           string `json:"phone" binding:"required,min=9,max=15"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	NationalID      string `json:"nationalId" binding:"required"`
	Address         string `json:"address"`
	Email           string `json:"email" binding:"omitempty,email"`
}

// CreateUserInput represents staff/admin provisioning of a user
type CreateUserInput struct {
	Name       string   `json:"name" binding:"required,min=2,max=100"`
	Phone      string   `json:"phone" binding:"required,min=9,max=15"`
	Password   string   `json:"password" binding:"required,min=6"`
	NationalID string   `json:"nationalId" binding:"required"`
	Role       UserRole `json:"role"`
	Address    string   `json:"address"`
	Email      string   `json:"email" binding:"omitempty,email"`
	Department string   `json:"department"`
	Position   string   `json:"position"`
}

// UpdateUserInput represents a partial profile update; nil fields are left unchanged
type UpdateUserInput struct {
	Name       *string   `json:"name"`
	NationalID *string   `json:"nationalId"`
	Role       *UserRole `json:"role"`
	Address    *string   `json:"address"`
	Email      *string   `json:"email"`
	Department *string   `json:"department"`
	Position   *string   `json:"position"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}
