package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCPF(t *testing.T) {
	assert.True(t, ValidateCPF("11144477735"))
	assert.True(t, ValidateCPF("111.444.777-35"))
	assert.False(t, ValidateCPF("11144477736"))
	assert.False(t, ValidateCPF("11111111111"))
	assert.False(t, ValidateCPF("123"))
	assert.Equal(t, "11144477735", NormalizeCPF("111.444.777-35"))
}

func TestPlaca(t *testing.T) {
	assert.Equal(t, "ABC1234", NormalizePlaca(" abc-1234 "))
	assert.True(t, ValidatePlaca("ABC1234"))
	assert.True(t, ValidatePlaca("abc1d23"))
	assert.False(t, ValidatePlaca("AB12345"))
	assert.False(t, ValidatePlaca(""))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("a@x.com"))
	assert.False(t, ValidateEmail("a@x"))
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}

func TestNormalizeWhatsAppTo(t *testing.T) {
	phone, err := NormalizeWhatsAppTo("(11) 98765-4321")
	require.NoError(t, err)
	assert.Equal(t, "5511987654321", phone)

	phone, err = NormalizeWhatsAppTo("+55 11 98765-4321")
	require.NoError(t, err)
	assert.Equal(t, "5511987654321", phone)

	_, err = NormalizeWhatsAppTo("1234")
	assert.Error(t, err)
	assert.False(t, ValidateTelefone(""))
}

func TestRandomString(t *testing.T) {
	a := RandomString(32)
	b := RandomString(32)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestViaCEPBuscar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/01001000/json/":
			w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","complemento":"lado ímpar","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
		case "/99999999/json/":
			w.Write([]byte(`{"erro": "true"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := NewViaCEPClient(srv.URL + "/")

	end, err := client.Buscar(context.Background(), "01001-000")
	require.NoError(t, err)
	assert.Equal(t, "01001000", end.CEP)
	assert.Equal(t, "São Paulo", end.Cidade)
	assert.Equal(t, "SP", end.Estado)

	_, err = client.Buscar(context.Background(), "99999-999")
	assert.ErrorIs(t, err, ErrCEPNaoEncontrado)

	_, err = client.Buscar(context.Background(), "123")
	assert.ErrorIs(t, err, ErrCEPInvalido)

	_, err = client.Buscar(context.Background(), "11111111")
	assert.Error(t, err)
}
