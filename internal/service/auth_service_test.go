package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumvida/lumvida-backend/internal/models"
	"github.com/lumvida/lumvida-backend/internal/pkg/apperror"
	"github.com/lumvida/lumvida-backend/internal/repository"
)

type memUserStore struct {
	byEmail map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: make(map[string]*models.User)}
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	return nil
}

func TestLoginIssuesParsableToken(t *testing.T) {
	users := newMemUserStore()
	tokens := NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService(users, tokens)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin@LumVida.mx", "s3cret-pass"))

	token, user, err := svc.Login(context.Background(), "admin@lumvida.mx", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	id, role, err := tokens.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newMemUserStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	users.byEmail["admin@lumvida.mx"] = &models.User{
		ID:           uuid.New(),
		Email:        "admin@lumvida.mx",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	svc := NewAuthService(users, NewTokenManager("test-secret", time.Hour))

	_, _, err := svc.Login(context.Background(), "admin@lumvida.mx", "wrong")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), NewTokenManager("test-secret", time.Hour))
	_, _, err := svc.Login(context.Background(), "nobody@lumvida.mx", "x")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestEnsureAdminIdempotent(t *testing.T) {
	users := newMemUserStore()
	svc := NewAuthService(users, NewTokenManager("test-secret", time.Hour))

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@lumvida.mx", "pass"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@lumvida.mx", "pass"))
	assert.Len(t, users.byEmail, 1)
}

func TestParseAccessRejectsTamperedToken(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, err := other.Generate(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	_, _, err = tokens.ParseAccess(token)
	assert.Error(t, err)
}
