package controllers

import (
	"context"
	"errors"
	"net/http"

	"checar/tools"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// CEPLookup é satisfeito por tools.ViaCEPClient.
type CEPLookup interface {
	Buscar(ctx context.Context, cep string) (*tools.Endereco, error)
}

type CEPController struct {
	lookup CEPLookup
}

func NewCEPController(lookup CEPLookup) *CEPController {
	return &CEPController{lookup: lookup}
}

// GET /api/cep/:cep
func (ctl *CEPController) Buscar(c *gin.Context) {
	end, err := ctl.lookup.Buscar(c.Request.Context(), c.Param("cep"))
	switch {
	case errors.Is(err, tools.ErrCEPInvalido):
		RespondError(c, "CEP inválido", http.StatusBadRequest)
	case errors.Is(err, tools.ErrCEPNaoEncontrado):
		RespondError(c, "CEP não encontrado", http.StatusNotFound)
	case err != nil:
		log.WithError(err).Warn("Falha na consulta ao ViaCEP")
		RespondError(c, "Serviço de CEP indisponível", http.StatusBadGateway)
	default:
		RespondSuccess(c, end)
	}
}
