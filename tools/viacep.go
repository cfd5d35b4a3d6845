package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrCEPInvalido      = errors.New("CEP inválido")
	ErrCEPNaoEncontrado = errors.New("CEP não encontrado")
)

// Endereco é o retorno do ViaCEP já no formato usado pelo cadastro de clientes.
type Endereco struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`
}

type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        any    `json:"erro"`
}

// ViaCEPClient consulta https://viacep.com.br/ws/{cep}/json/.
type ViaCEPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewViaCEPClient(baseURL string) *ViaCEPClient {
	return &ViaCEPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ViaCEPClient) Buscar(ctx context.Context, cep string) (*Endereco, error) {
	cep = NormalizeCEP(cep)
	if !ValidateCEP(cep) {
		return nil, ErrCEPInvalido
	}

	url := fmt.Sprintf("%s/%s/json/", c.BaseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrCEPInvalido
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("viacep error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("viacep decode: %w", err)
	}
	// ViaCEP responde 200 com {"erro": true} (ou "true") para CEP inexistente
	if out.Erro != nil && fmt.Sprint(out.Erro) != "false" {
		return nil, ErrCEPNaoEncontrado
	}

	return &Endereco{
		CEP:         NormalizeCEP(out.CEP),
		Logradouro:  out.Logradouro,
		Complemento: out.Complemento,
		Bairro:      out.Bairro,
		Cidade:      out.Localidade,
		Estado:      out.UF,
	}, nil
}
