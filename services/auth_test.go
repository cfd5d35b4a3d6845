package services

import (
	"context"
	"testing"
	"time"

	"checar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*AuthService, *time.Time) {
	t.Helper()
	now := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	s := NewAuthService(openTestDB(t), AuthConfig{JwtSecret: "segredo", AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour})
	s.now = func() time.Time { return now }
	return s, &now
}

func TestAuthRegisterELogin(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()

	resp, err := s.Register(ctx, RegisterInput{Nome: "Maria", Email: "Maria@X.com", Senha: "123456", CPF: "11144477735"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCliente, resp.User.Role)
	assert.Equal(t, "maria@x.com", resp.User.Email)
	require.NotNil(t, resp.Cliente)
	assert.Equal(t, resp.User.ID, *resp.Cliente.UserID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	_, err = s.Register(ctx, RegisterInput{Nome: "Maria", Email: "maria@x.com", Senha: "123456", CPF: "52998224725"})
	assert.ErrorIs(t, err, ErrConflict)

	// CPF duplicado desfaz também a conta criada na transação
	_, err = s.Register(ctx, RegisterInput{Nome: "Outra", Email: "outra@x.com", Senha: "123456", CPF: "11144477735"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.Login(ctx, "outra@x.com", "123456")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Login(ctx, "maria@x.com", "errada")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualError(t, err, "Usuário ou senha inválidos")

	login, err := s.Login(ctx, "maria@x.com", "123456")
	require.NoError(t, err)
	require.NotNil(t, login.Cliente)
	require.NotNil(t, login.User.UltimoLogin)

	claims, err := s.ParseAccessToken(login.AccessToken)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, id)
	assert.Equal(t, models.RoleCliente, claims.Role)
}

func TestAuthAccessTokenExpira(t *testing.T) {
	s, now := newAuth(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureAdmin(ctx, "admin@checar.com", "admin123"))
	require.NoError(t, s.EnsureAdmin(ctx, "admin@checar.com", "admin123"))

	resp, err := s.Login(ctx, "admin@checar.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	*now = now.Add(16 * time.Minute)
	_, err = s.ParseAccessToken(resp.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.ParseAccessToken("lixo")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthRefreshRotaciona(t *testing.T) {
	s, now := newAuth(t)
	ctx := context.Background()
	resp, err := s.Register(ctx, RegisterInput{Nome: "Maria", Email: "a@x.com", Senha: "123456", CPF: "11144477735"})
	require.NoError(t, err)

	pair, err := s.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, pair.RefreshToken)

	// o token antigo foi revogado na rotação
	_, err = s.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	*now = now.Add(25 * time.Hour)
	_, err = s.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestAuthLogoutEChangePassword(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	resp, err := s.Register(ctx, RegisterInput{Nome: "Maria", Email: "a@x.com", Senha: "123456", CPF: "11144477735"})
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, resp.User.ID, resp.RefreshToken))
	_, err = s.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	login, err := s.Login(ctx, "a@x.com", "123456")
	require.NoError(t, err)

	err = s.ChangePassword(ctx, resp.User.ID, "errada", "nova123")
	assert.ErrorIs(t, err, ErrBadRequest)

	require.NoError(t, s.ChangePassword(ctx, resp.User.ID, "123456", "nova123"))
	_, err = s.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Login(ctx, "a@x.com", "nova123")
	require.NoError(t, err)

	user, cliente, err := s.Me(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	require.NotNil(t, cliente)
}

func TestAuthCreateUser(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, UserInput{Nome: "Pedro", Email: "pedro@oficina.com", Senha: "123456", Role: models.RoleMecanico})
	require.NoError(t, err)
	assert.True(t, u.Role.IsStaff())

	_, err = s.CreateUser(ctx, UserInput{Nome: "X", Email: "x@oficina.com", Senha: "123456", Role: "ROOT"})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = s.CreateUser(ctx, UserInput{Nome: "X", Email: "x@oficina.com", Senha: "123", Role: models.RoleMecanico})
	assert.ErrorIs(t, err, ErrBadRequest)
}
