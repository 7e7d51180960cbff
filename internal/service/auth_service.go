package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lumvida/lumvida-backend/internal/logger"
	"github.com/lumvida/lumvida-backend/internal/models"
	"github.com/lumvida/lumvida-backend/internal/pkg/apperror"
	"github.com/lumvida/lumvida-backend/internal/repository"
)

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// AuthService authenticates dashboard administrators.
type AuthService struct {
	users  UserStore
	tokens *TokenManager
}

func NewAuthService(users UserStore, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to issue token")
	}

	return token, user, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist
// yet. Called once at startup.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	if logger.Log != nil {
		logger.Log.WithField("email", email).Info("bootstrap admin account created")
	}
	return nil
}
