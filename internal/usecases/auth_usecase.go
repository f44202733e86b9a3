package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"vnbank.backend/internal/domain/entities"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/internal/domain/repositories"
	"vnbank.backend/pkg/crypto"
	"vnbank.backend/pkg/jwt"
)

// AuthUsecase handles registration and authentication
type AuthUsecase struct {
	uow         repositories.UnitOfWork
	userRepo    repositories.UserRepository
	accountRepo repositories.AccountRepository
	jwtService  *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	uow repositories.UnitOfWork,
	userRepo repositories.UserRepository,
	accountRepo repositories.AccountRepository,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		uow:         uow,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		jwtService:  jwtService,
	}
}

// Register creates a customer together with a default PAYMENT account
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, *entities.Account, error) {
	if input.Password != input.ConfirmPassword {
		return nil, nil, domainerrors.ErrPasswordMismatch
	}
	phone := strings.TrimSpace(input.Phone)

	_, err := u.userRepo.GetByPhone(ctx, phone)
	if err == nil {
		return nil, nil, domainerrors.ErrDuplicatePhone
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &entities.User{
		Name:         strings.TrimSpace(input.Name),
		Phone:        phone,
		PasswordHash: passwordHash,
		NationalID:   input.NationalID,
		Role:         entities.UserRoleCustomer,
		Address:      optionalString(input.Address),
		Email:        optionalString(input.Email),
	}

	var account *entities.Account
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		account, err = createAccount(txCtx, u.accountRepo, user.ID, entities.AccountTypePayment)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return user, account, nil
}

// Authenticate checks a phone/password pair
func (u *AuthUsecase) Authenticate(ctx context.Context, phone, password string) (*entities.User, error) {
	user, err := u.userRepo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.Authenticate(ctx, input.Phone, input.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Phone, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateTokenOfType(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	// deleted users cannot refresh
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Phone, string(user.Role))
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func optionalString(s string) null.String {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
