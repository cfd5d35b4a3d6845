package controllers

import (
	"net/http"

	"checar/models"
	"checar/pagination"
	"checar/repository"
	"checar/services"

	"github.com/gin-gonic/gin"
)

type ClienteController struct {
	clientes *services.ClienteService
}

func NewClienteController(clientes *services.ClienteService) *ClienteController {
	return &ClienteController{clientes: clientes}
}

// GET /api/clientes?page&limit&sortBy&sortOrder&search&status&cidade&estado
func (ctl *ClienteController) List(c *gin.Context) {
	params := pagination.ParseParams(c.Request.URL.Query())
	filtros := repository.ClienteFiltros{
		Search: c.Query("search"),
		Status: models.StatusCliente(c.Query("status")),
		Cidade: c.Query("cidade"),
		Estado: c.Query("estado"),
	}
	res, err := ctl.clientes.List(c.Request.Context(), params, filtros)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondPaginated(c, res)
}

// GET /api/clientes/:id
func (ctl *ClienteController) Get(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok || !canAccessCliente(c, id) {
		return
	}
	cliente, err := ctl.clientes.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, cliente)
}

// GET /api/clientes/cpf/:cpf
func (ctl *ClienteController) GetByCpf(c *gin.Context) {
	cliente, err := ctl.clientes.GetByCpf(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, cliente)
}

// GET /api/clientes/email/:email
func (ctl *ClienteController) GetByEmail(c *gin.Context) {
	cliente, err := ctl.clientes.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, cliente)
}

// POST /api/clientes
func (ctl *ClienteController) Create(c *gin.Context) {
	var req services.ClienteInput
	if !bind(c, &req) {
		return
	}
	cliente, err := ctl.clientes.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, cliente)
}

// PUT /api/clientes/:id
// O próprio cliente pode editar o cadastro, mas não o status.
func (ctl *ClienteController) Update(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok || !canAccessCliente(c, id) {
		return
	}
	var req services.ClienteUpdateInput
	if !bind(c, &req) {
		return
	}
	if user, _ := GetUserLogged(c); !user.Role.IsStaff() && req.Status != nil {
		RespondError(c, "Apenas a oficina pode alterar o status do cliente", http.StatusForbidden)
		return
	}
	cliente, err := ctl.clientes.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, cliente)
}

// DELETE /api/clientes/:id (admin)
func (ctl *ClienteController) Delete(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctl.clientes.Delete(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "Cliente inativado"})
}
