package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/auth"
)

func newTestAuthService() *auth.Service {
	return auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "test-secret-key-for-testing-only",
			Issuer:     "https://api.fitarchitect.app",
			Audience:   "fitarchitect-api",
		}),
		UserRepo:    auth.NewInMemoryUserRepository(),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
		BcryptCost:  bcrypt.MinCost,
	})
}

func TestService_Register(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:       "Jo@Example.com",
		Password:    "correct horse battery",
		DisplayName: "Jo",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Greater(t, resp.ExpiresIn, int64(0))

	// Email is normalized on storage and never carries the hash outward.
	assert.Equal(t, "jo@example.com", resp.User.Email)

	userID, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "jo@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "JO@example.com",
		Password: "another password",
	})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestService_Register_Validation(t *testing.T) {
	svc := newTestAuthService()

	tests := []struct {
		name string
		req  auth.RegisterRequest
	}{
		{"missing email", auth.RegisterRequest{Password: "long enough password"}},
		{"malformed email", auth.RegisterRequest{Email: "not-an-email", Password: "long enough password"}},
		{"short password", auth.RegisterRequest{Email: "jo@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tt.req)
			assert.Error(t, err)
		})
	}
}

func TestService_Login(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "jo@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "JO@example.com ",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "jo@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "jo@example.com",
		Password: "wrong password entirely",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_RefreshRotation(t *testing.T) {
	svc := newTestAuthService()

	registered, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "jo@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshAccessToken(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The old token is revoked by rotation.
	_, err = svc.RefreshAccessToken(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)

	// The new one still works.
	_, err = svc.RefreshAccessToken(context.Background(), refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestService_LogoutAll(t *testing.T) {
	svc := newTestAuthService()

	first, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "jo@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	second, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "jo@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllTokens(context.Background(), first.User.ID))

	_, err = svc.RefreshAccessToken(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	_, err = svc.RefreshAccessToken(context.Background(), second.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}
