package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/banglish/backend/internal/models"
)

func register(t *testing.T, s *AccountService, username, email string) *models.User {
	t.Helper()
	u, err := s.Register(context.Background(), &models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func TestAccountService_Register(t *testing.T) {
	s, err := NewAccountService(t.TempDir())
	require.NoError(t, err)

	u := register(t, s, "rahim", "Rahim@Example.com")

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "rahim@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
}

func TestAccountService_Uniqueness(t *testing.T) {
	s, err := NewAccountService(t.TempDir())
	require.NoError(t, err)
	register(t, s, "rahim", "rahim@example.com")

	_, err = s.Register(context.Background(), &models.RegisterRequest{
		Username: "karim", Email: "RAHIM@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = s.Register(context.Background(), &models.RegisterRequest{
		Username: "Rahim", Email: "other@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAccountService_Validation(t *testing.T) {
	tests := []struct {
		name   string
		req    models.RegisterRequest
		fields []string
	}{
		{
			name:   "all fields invalid",
			req:    models.RegisterRequest{Username: "", Email: "not-an-email", Password: "123"},
			fields: []string{"username", "email", "password"},
		},
		{
			name:   "password longer than bcrypt accepts",
			req:    models.RegisterRequest{Username: "rahim", Email: "rahim@example.com", Password: strings.Repeat("x", models.MaxPasswordBytes+1)},
			fields: []string{"password"},
		},
		{
			name:   "multibyte password over the byte limit",
			req:    models.RegisterRequest{Username: "rahim", Email: "rahim@example.com", Password: strings.Repeat("আ", 25)},
			fields: []string{"password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewAccountService(t.TempDir())
			require.NoError(t, err)

			_, err = s.Register(context.Background(), &tt.req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestAccountService_MaxLengthPassword(t *testing.T) {
	s, err := NewAccountService(t.TempDir())
	require.NoError(t, err)
	password := strings.Repeat("x", models.MaxPasswordBytes)

	_, err = s.Register(context.Background(), &models.RegisterRequest{
		Username: "rahim", Email: "rahim@example.com", Password: password,
	})
	require.NoError(t, err)

	_, err = s.Authenticate(context.Background(), &models.LoginRequest{Email: "rahim@example.com", Password: password})
	assert.NoError(t, err)
}

func TestAccountService_Authenticate(t *testing.T) {
	s, err := NewAccountService(t.TempDir())
	require.NoError(t, err)
	u := register(t, s, "rahim", "rahim@example.com")
	ctx := context.Background()

	got, err := s.Authenticate(ctx, &models.LoginRequest{Email: "RAHIM@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate(ctx, &models.LoginRequest{Email: "rahim@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = s.Authenticate(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccountService_PersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	s, err := NewAccountService(dir)
	require.NoError(t, err)

	admin, err := s.CreateAdmin(context.Background(), &models.RegisterRequest{
		Username: "admin", Email: "admin@example.com", Password: "adminpass",
	})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	reopened, err := NewAccountService(dir)
	require.NoError(t, err)

	got, err := reopened.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	_, err = reopened.Authenticate(context.Background(), &models.LoginRequest{Email: "admin@example.com", Password: "adminpass"})
	assert.NoError(t, err)

	_, err = reopened.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
