package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"filmoteca/internal/auth"
	apperrors "filmoteca/internal/errors"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, bcryptCost int) AuthService {
	if bcryptCost == 0 {
		bcryptCost = 10
	}
	return &authService{
		users:      users,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user with a hashed password. Duplicate emails are
// detected from the store's uniqueness violation rather than a pre-check, so
// there is no window between check and insert. The plaintext password is
// never persisted or logged.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a one-hour token embedding the user
// id. Unknown email and wrong password share a single failure path.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperrors.ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		// Anything else is a store failure, not a credential failure.
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}
