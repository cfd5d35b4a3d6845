package controllers

import (
	"net/http"
	"time"

	"checar/models"
	"checar/pagination"
	"checar/repository"
	"checar/services"

	"github.com/gin-gonic/gin"
)

type RevisaoController struct {
	revisoes *services.RevisaoService
}

func NewRevisaoController(revisoes *services.RevisaoService) *RevisaoController {
	return &RevisaoController{revisoes: revisoes}
}

type IniciarRequest struct {
	MecanicoID *int64 `json:"mecanicoId"`
}

type CancelarRequest struct {
	Motivo string `json:"motivo"`
}

type ReagendarRequest struct {
	DataRevisao time.Time `json:"dataRevisao" binding:"required"`
}

type RespostaRequest struct {
	Resposta string `json:"resposta" binding:"required"`
}

// GET /api/revisoes?clienteId&veiculoId&mecanicoId&status&tipo&dataInicio&dataFim
// CLIENTE só enxerga as próprias revisões.
func (ctl *RevisaoController) List(c *gin.Context) {
	scope, ok := scopeCliente(c)
	if !ok {
		return
	}
	inicio, ok := queryTime(c, "dataInicio")
	if !ok {
		return
	}
	fim, ok := queryTime(c, "dataFim")
	if !ok {
		return
	}

	params := pagination.ParseParams(c.Request.URL.Query())
	filtros := repository.RevisaoFiltros{
		ClienteID:  queryInt64(c, "clienteId"),
		VeiculoID:  queryInt64(c, "veiculoId"),
		MecanicoID: queryInt64(c, "mecanicoId"),
		Status:     models.StatusRevisao(c.Query("status")),
		Tipo:       models.TipoRevisao(c.Query("tipo")),
		DataInicio: inicio,
		DataFim:    fim,
	}
	if scope > 0 {
		filtros.ClienteID = scope
	}
	res, err := ctl.revisoes.List(c.Request.Context(), params, filtros)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondPaginated(c, res)
}

// GET /api/revisoes/stats
func (ctl *RevisaoController) Stats(c *gin.Context) {
	stats, err := ctl.revisoes.GetStats(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, stats)
}

// GET /api/revisoes/hoje
func (ctl *RevisaoController) Hoje(c *gin.Context) {
	list, err := ctl.revisoes.GetRevisoesHoje(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, list)
}

// load busca a revisão e confere se o usuário pode acessá-la.
func (ctl *RevisaoController) load(c *gin.Context) (*models.Revisao, bool) {
	id, ok := ParamID(c, "id")
	if !ok {
		return nil, false
	}
	rev, err := ctl.revisoes.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return nil, false
	}
	if !canAccessCliente(c, rev.ClienteID) {
		return nil, false
	}
	return rev, true
}

// GET /api/revisoes/:id
func (ctl *RevisaoController) Get(c *gin.Context) {
	rev, ok := ctl.load(c)
	if !ok {
		return
	}
	RespondSuccess(c, rev)
}

// POST /api/revisoes
func (ctl *RevisaoController) Create(c *gin.Context) {
	var req services.RevisaoInput
	if !bind(c, &req) {
		return
	}
	rev, err := ctl.revisoes.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, rev)
}

// PUT /api/revisoes/:id
func (ctl *RevisaoController) Update(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.RevisaoUpdateInput
	if !bind(c, &req) {
		return
	}
	rev, err := ctl.revisoes.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, rev)
}

// DELETE /api/revisoes/:id (admin)
func (ctl *RevisaoController) Delete(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctl.revisoes.Delete(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "Revisão excluída"})
}

/************************************************
/**** MARK: TRANSIÇÕES ****/
/************************************************/

// POST /api/revisoes/:id/iniciar
func (ctl *RevisaoController) Iniciar(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req IniciarRequest
	if !bindOptional(c, &req) {
		return
	}
	rev, err := ctl.revisoes.Iniciar(c.Request.Context(), id, req.MecanicoID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, rev)
}

// POST /api/revisoes/:id/finalizar
func (ctl *RevisaoController) Finalizar(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.FinalizarInput
	if !bindOptional(c, &req) {
		return
	}
	rev, err := ctl.revisoes.Finalizar(c.Request.Context(), id, req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, rev)
}

// POST /api/revisoes/:id/cancelar
// O próprio cliente pode cancelar uma revisão dele.
func (ctl *RevisaoController) Cancelar(c *gin.Context) {
	rev, ok := ctl.load(c)
	if !ok {
		return
	}
	var req CancelarRequest
	if !bindOptional(c, &req) {
		return
	}
	updated, err := ctl.revisoes.Cancelar(c.Request.Context(), rev.ID, req.Motivo)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, updated)
}

// PATCH /api/revisoes/:id/reagendar
func (ctl *RevisaoController) Reagendar(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req ReagendarRequest
	if !bind(c, &req) {
		return
	}
	rev, err := ctl.revisoes.Reagendar(c.Request.Context(), id, req.DataRevisao)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, rev)
}

/************************************************
/**** MARK: CHECKLIST ****/
/************************************************/

// GET /api/revisoes/:id/checklist
func (ctl *RevisaoController) Checklist(c *gin.Context) {
	rev, ok := ctl.load(c)
	if !ok {
		return
	}
	view, err := ctl.revisoes.GetChecklist(c.Request.Context(), rev.ID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, view)
}

// PATCH /api/revisoes/:id/checklist/itens/:itemId
func (ctl *RevisaoController) AtualizarItem(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	itemID := c.Param("itemId")
	if itemID == "" {
		RespondError(c, "itemId é obrigatório", http.StatusBadRequest)
		return
	}
	var patch models.ItemPatch
	if !bind(c, &patch) {
		return
	}
	item, err := ctl.revisoes.AtualizarItemChecklist(c.Request.Context(), id, itemID, patch)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, item)
}

// PATCH /api/revisoes/:id/checklist/perguntas/:perguntaId
// Perguntas de pré-diagnóstico podem ser respondidas pelo próprio cliente.
func (ctl *RevisaoController) ResponderPergunta(c *gin.Context) {
	rev, ok := ctl.load(c)
	if !ok {
		return
	}
	var req RespostaRequest
	if !bind(c, &req) {
		return
	}
	p, err := ctl.revisoes.ResponderPergunta(c.Request.Context(), rev.ID, c.Param("perguntaId"), req.Resposta)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, p)
}
