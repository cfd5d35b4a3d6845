package controllers

import (
	"net/http"

	"checar/models"
	"checar/pagination"
	"checar/repository"
	"checar/services"

	"github.com/gin-gonic/gin"
)

type VeiculoController struct {
	veiculos *services.VeiculoService
}

func NewVeiculoController(veiculos *services.VeiculoService) *VeiculoController {
	return &VeiculoController{veiculos: veiculos}
}

type KilometragemRequest struct {
	KmAtual *int `json:"kmAtual" binding:"required,gte=0"`
}

// GET /api/veiculos?clienteId&status&marca&combustivel&search
// CLIENTE só enxerga os próprios veículos.
func (ctl *VeiculoController) List(c *gin.Context) {
	scope, ok := scopeCliente(c)
	if !ok {
		return
	}
	params := pagination.ParseParams(c.Request.URL.Query())
	filtros := repository.VeiculoFiltros{
		ClienteID:   queryInt64(c, "clienteId"),
		Status:      models.StatusVeiculo(c.Query("status")),
		Marca:       c.Query("marca"),
		Combustivel: c.Query("combustivel"),
		Search:      c.Query("search"),
	}
	if scope > 0 {
		filtros.ClienteID = scope
	}
	res, err := ctl.veiculos.List(c.Request.Context(), params, filtros)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondPaginated(c, res)
}

// load busca o veículo e confere se o usuário pode acessá-lo.
func (ctl *VeiculoController) load(c *gin.Context) (*models.Veiculo, bool) {
	id, ok := ParamID(c, "id")
	if !ok {
		return nil, false
	}
	v, err := ctl.veiculos.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return nil, false
	}
	if !canAccessCliente(c, v.ClienteID) {
		return nil, false
	}
	return v, true
}

// GET /api/veiculos/:id
func (ctl *VeiculoController) Get(c *gin.Context) {
	v, ok := ctl.load(c)
	if !ok {
		return
	}
	RespondSuccess(c, v)
}

// GET /api/veiculos/placa/:placa
func (ctl *VeiculoController) GetByPlaca(c *gin.Context) {
	v, err := ctl.veiculos.GetByPlaca(c.Request.Context(), c.Param("placa"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if !canAccessCliente(c, v.ClienteID) {
		return
	}
	RespondSuccess(c, v)
}

// GET /api/veiculos/cliente/:clienteId
func (ctl *VeiculoController) GetByCliente(c *gin.Context) {
	clienteID, ok := ParamID(c, "clienteId")
	if !ok || !canAccessCliente(c, clienteID) {
		return
	}
	list, err := ctl.veiculos.GetByClienteID(c.Request.Context(), clienteID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, list)
}

// POST /api/veiculos
func (ctl *VeiculoController) Create(c *gin.Context) {
	var req services.VeiculoInput
	if !bind(c, &req) {
		return
	}
	if !canAccessCliente(c, req.ClienteID) {
		return
	}
	if user, _ := GetUserLogged(c); !user.Role.IsStaff() && req.Status != "" {
		RespondError(c, "Apenas a oficina pode definir o status do veículo", http.StatusForbidden)
		return
	}
	v, err := ctl.veiculos.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, v)
}

// PUT /api/veiculos/:id
func (ctl *VeiculoController) Update(c *gin.Context) {
	v, ok := ctl.load(c)
	if !ok {
		return
	}
	var req services.VeiculoUpdateInput
	if !bind(c, &req) {
		return
	}
	if user, _ := GetUserLogged(c); !user.Role.IsStaff() && req.Status != nil {
		RespondError(c, "Apenas a oficina pode alterar o status do veículo", http.StatusForbidden)
		return
	}
	updated, err := ctl.veiculos.Update(c.Request.Context(), v.ID, req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, updated)
}

// PATCH /api/veiculos/:id/kilometragem
func (ctl *VeiculoController) UpdateKilometragem(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req KilometragemRequest
	if !bind(c, &req) {
		return
	}
	v, err := ctl.veiculos.UpdateKilometragem(c.Request.Context(), id, *req.KmAtual)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, v)
}

// DELETE /api/veiculos/:id
func (ctl *VeiculoController) Delete(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctl.veiculos.Delete(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "Veículo removido"})
}

// GET /api/veiculos/:id/historico
func (ctl *VeiculoController) Historico(c *gin.Context) {
	v, ok := ctl.load(c)
	if !ok {
		return
	}
	list, err := ctl.veiculos.Historico(c.Request.Context(), v.ID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, list)
}
