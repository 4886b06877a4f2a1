package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "test"})
}

func TestAuthUseCase_RegisterLogin(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Bodega@Example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, u.Role, "rol por defecto")
	assert.Equal(t, "bodega@example.com", u.Email)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "bodega@example.com", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "bodega@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, 1800, res.ExpiresIn)
	userID, role, err := pkgjwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleStaff, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "bodega@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthUseCase_ChangePassword(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "password2"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "password1", NewPassword: "password2"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "password2"})
	require.NoError(t, err)
}

func TestAuthUseCase_EnsureAdminIdempotente(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	require.NoError(t, uc.EnsureAdmin(ctx, "", ""))
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@example.com", "adminpass"))
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@example.com", "otra-clave"))

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "adminpass"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, res.User.Role)
}
