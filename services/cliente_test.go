package services

import (
	"context"
	"testing"

	"checar/models"
	"checar/pagination"
	"checar/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClienteCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.cliente(t, "111.444.777-35", " A@X.com ")
	assert.Equal(t, "11144477735", c.CPF)
	assert.Equal(t, "a@x.com", c.Email)
	assert.Equal(t, models.ClienteAtivo, c.Status)
	assert.True(t, c.NotificarEmail)
	assert.True(t, c.NotificarWhatsapp)
	assert.False(t, c.NotificarSMS)

	_, err := f.clientes.Create(ctx, ClienteInput{Nome: "Outra", CPF: "11144477735", Email: "b@x.com"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "CPF já cadastrado")

	_, err = f.clientes.Create(ctx, ClienteInput{Nome: "Outra", CPF: "52998224725", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.clientes.Create(ctx, ClienteInput{Nome: "Outra", CPF: "11111111111", Email: "c@x.com"})
	assert.ErrorIs(t, err, ErrBadRequest)

	byCPF, err := f.clientes.GetByCpf(ctx, "111.444.777-35")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byCPF.ID)

	_, err = f.clientes.GetByEmail(ctx, "nao@existe.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClienteUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cliente(t, "11144477735", "a@x.com")
	f.cliente(t, "52998224725", "b@x.com")

	_, err := f.clientes.Update(ctx, c.ID, ClienteUpdateInput{Email: str("b@x.com")})
	assert.ErrorIs(t, err, ErrConflict)

	// mesmo CPF do próprio cliente não conflita
	got, err := f.clientes.Update(ctx, c.ID, ClienteUpdateInput{CPF: str("111.444.777-35"), Cidade: str("Campinas"), Estado: str("sp")})
	require.NoError(t, err)
	assert.Equal(t, "Campinas", got.Cidade)
	assert.Equal(t, "SP", got.Estado)

	notificar := false
	got, err = f.clientes.Update(ctx, c.ID, ClienteUpdateInput{NotificarWhatsapp: &notificar})
	require.NoError(t, err)
	assert.False(t, got.NotificarWhatsapp)
	assert.True(t, got.NotificarEmail)

	_, err = f.clientes.Update(ctx, 999, ClienteUpdateInput{Nome: str("X")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClienteDeleteDesativaConta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := NewAuthService(f.db, AuthConfig{JwtSecret: "segredo"})

	resp, err := auth.Register(ctx, RegisterInput{Nome: "Maria", Email: "a@x.com", Senha: "123456", CPF: "11144477735"})
	require.NoError(t, err)
	require.NotNil(t, resp.Cliente)

	require.NoError(t, f.clientes.Delete(ctx, resp.Cliente.ID))

	c, err := f.clientes.GetByID(ctx, resp.Cliente.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClienteInativo, c.Status)

	_, err = auth.Login(ctx, "a@x.com", "123456")
	assert.EqualError(t, err, "Usuário inativo")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClienteList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cliente(t, "11144477735", "a@x.com")
	f.cliente(t, "52998224725", "b@x.com")
	_, err := f.clientes.Create(ctx, ClienteInput{Nome: "Joao", Sobrenome: "Souza", CPF: "39053344705", Email: "joao@x.com", Cidade: "Santos"})
	require.NoError(t, err)

	res, err := f.clientes.List(ctx, pagination.Params{Page: 1, Limit: 2}, repository.ClienteFiltros{})
	require.NoError(t, err)
	assert.Len(t, res.Data, 2)
	assert.EqualValues(t, 3, res.Meta.Total)
	assert.Equal(t, 2, res.Meta.TotalPages)
	assert.True(t, res.Meta.HasNextPage)

	res, err = f.clientes.List(ctx, pagination.Params{Page: 1, Limit: 10}, repository.ClienteFiltros{Search: "souza"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Joao", res.Data[0].Nome)
}

func TestClienteUpdateEmailAtualizaLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := NewAuthService(f.db, AuthConfig{JwtSecret: "segredo"})

	resp, err := auth.Register(ctx, RegisterInput{Nome: "Maria", Email: "a@x.com", Senha: "123456", CPF: "11144477735"})
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, UserInput{Nome: "Pedro", Email: "pedro@oficina.com", Senha: "123456", Role: models.RoleMecanico})
	require.NoError(t, err)

	// e-mail de outra conta de login
	_, err = f.clientes.Update(ctx, resp.Cliente.ID, ClienteUpdateInput{Email: str("pedro@oficina.com")})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := f.clientes.Update(ctx, resp.Cliente.ID, ClienteUpdateInput{Email: str("Maria.Nova@X.com")})
	require.NoError(t, err)
	assert.Equal(t, "maria.nova@x.com", got.Email)

	_, err = auth.Login(ctx, "a@x.com", "123456")
	assert.ErrorIs(t, err, ErrUnauthorized)
	login, err := auth.Login(ctx, "maria.nova@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestClienteTelefones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.clientes.Create(ctx, ClienteInput{Nome: "Maria", CPF: "11144477735", Email: "a@x.com", Telefone: "1234"})
	assert.ErrorIs(t, err, ErrBadRequest)

	c, err := f.clientes.Create(ctx, ClienteInput{Nome: "Maria", CPF: "11144477735", Email: "a@x.com", Telefone: "(11) 3333-4444", Whatsapp: "+55 11 98765-4321"})
	require.NoError(t, err)

	_, err = f.clientes.Update(ctx, c.ID, ClienteUpdateInput{Whatsapp: str("987")})
	assert.ErrorIs(t, err, ErrBadRequest)

	// vazio limpa o campo
	got, err := f.clientes.Update(ctx, c.ID, ClienteUpdateInput{Telefone2: str("")})
	require.NoError(t, err)
	assert.Empty(t, got.Telefone2)
}
