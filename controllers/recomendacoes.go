package controllers

import (
	"net/http"

	"checar/models"
	"checar/pagination"
	"checar/repository"
	"checar/services"

	"github.com/gin-gonic/gin"
)

type RecomendacaoController struct {
	recomendacoes *services.RecomendacaoService
}

func NewRecomendacaoController(recomendacoes *services.RecomendacaoService) *RecomendacaoController {
	return &RecomendacaoController{recomendacoes: recomendacoes}
}

type RecomendacaoStatusRequest struct {
	Status models.StatusRecomendacao `json:"status" binding:"required,oneof=PENDENTE ACEITA RECUSADA IMPLEMENTADA"`
}

// GET /api/recomendacoes?clienteId&veiculoId&revisaoId&status&prioridade
func (ctl *RecomendacaoController) List(c *gin.Context) {
	scope, ok := scopeCliente(c)
	if !ok {
		return
	}
	params := pagination.ParseParams(c.Request.URL.Query())
	filtros := repository.RecomendacaoFiltros{
		ClienteID:  queryInt64(c, "clienteId"),
		VeiculoID:  queryInt64(c, "veiculoId"),
		RevisaoID:  queryInt64(c, "revisaoId"),
		Status:     models.StatusRecomendacao(c.Query("status")),
		Prioridade: models.Prioridade(c.Query("prioridade")),
	}
	if scope > 0 {
		filtros.ClienteID = scope
	}
	res, err := ctl.recomendacoes.List(c.Request.Context(), params, filtros)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondPaginated(c, res)
}

func (ctl *RecomendacaoController) load(c *gin.Context) (*models.Recomendacao, bool) {
	id, ok := ParamID(c, "id")
	if !ok {
		return nil, false
	}
	rec, err := ctl.recomendacoes.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return nil, false
	}
	if !canAccessCliente(c, rec.ClienteID) {
		return nil, false
	}
	return rec, true
}

// GET /api/recomendacoes/:id
func (ctl *RecomendacaoController) Get(c *gin.Context) {
	rec, ok := ctl.load(c)
	if !ok {
		return
	}
	RespondSuccess(c, rec)
}

// PATCH /api/recomendacoes/:id/status
// O cliente aceita ou recusa; IMPLEMENTADA só pela oficina.
func (ctl *RecomendacaoController) UpdateStatus(c *gin.Context) {
	rec, ok := ctl.load(c)
	if !ok {
		return
	}
	var req RecomendacaoStatusRequest
	if !bind(c, &req) {
		return
	}
	if user, _ := GetUserLogged(c); !user.Role.IsStaff() && req.Status == models.RecomendacaoImplementada {
		RespondError(c, "Apenas a oficina pode marcar como implementada", http.StatusForbidden)
		return
	}
	updated, err := ctl.recomendacoes.UpdateStatus(c.Request.Context(), rec.ID, req.Status)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, updated)
}
