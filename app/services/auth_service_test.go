package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.app.Auth.Register(ctx, RegisterInput{Email: " Admin@Example.com ", Password: "secret-pass", Name: "Мария"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", view.Email)

	result, err := f.app.Auth.Login(ctx, LoginInput{Email: "ADMIN@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, view.ID, result.Admin.ID)

	claims, err := f.app.Auth.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, view.ID, claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestAuthService_LoginRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.app.Auth.Register(ctx, RegisterInput{Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	_, err = f.app.Auth.Login(ctx, LoginInput{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.app.Auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.app.Auth.Register(ctx, RegisterInput{Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	_, err = f.app.Auth.Register(ctx, RegisterInput{Email: "admin@example.com", Password: "other-pass"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_ResetAdminReplacesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.app.Auth.Register(ctx, RegisterInput{Email: "admin@example.com", Password: "old-password"})
	require.NoError(t, err)

	_, err = f.app.Auth.ResetAdmin(ctx, RegisterInput{Email: "admin@example.com", Password: "new-password"})
	require.NoError(t, err)

	_, err = f.app.Auth.Login(ctx, LoginInput{Email: "admin@example.com", Password: "old-password"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.app.Auth.Login(ctx, LoginInput{Email: "admin@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, err := f.app.Auth.Register(ctx, RegisterInput{Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	admin, err := f.repos.Admins.FindByID(ctx, view.ID)
	require.NoError(t, err)

	token, err := f.app.Auth.IssueToken(admin)
	require.NoError(t, err)

	other := NewAuthService(f.repos.Admins, "another-secret")
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.app.Auth.ValidateToken("")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.app.Auth.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	f.app.Auth.now = func() time.Time { return time.Now().Add(AdminTokenTTL + time.Hour) }
	_, err = f.app.Auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_NoSecret(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.repos.Admins, "")

	_, err := auth.ValidateToken("anything")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
