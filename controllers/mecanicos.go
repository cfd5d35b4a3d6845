package controllers

import (
	"checar/pagination"
	"checar/repository"
	"checar/services"

	"github.com/gin-gonic/gin"
)

type MecanicoController struct {
	mecanicos *services.MecanicoService
}

func NewMecanicoController(mecanicos *services.MecanicoService) *MecanicoController {
	return &MecanicoController{mecanicos: mecanicos}
}

// GET /api/mecanicos?ativo&search
func (ctl *MecanicoController) List(c *gin.Context) {
	params := pagination.ParseParams(c.Request.URL.Query())
	res, err := ctl.mecanicos.List(c.Request.Context(), params, repository.MecanicoFiltros{
		Ativo:  queryBool(c, "ativo"),
		Search: c.Query("search"),
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondPaginated(c, res)
}

// GET /api/mecanicos/:id
func (ctl *MecanicoController) Get(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	m, err := ctl.mecanicos.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, m)
}

// POST /api/mecanicos (admin)
func (ctl *MecanicoController) Create(c *gin.Context) {
	var req services.MecanicoInput
	if !bind(c, &req) {
		return
	}
	m, err := ctl.mecanicos.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, m)
}

// PUT /api/mecanicos/:id (admin)
func (ctl *MecanicoController) Update(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.MecanicoUpdateInput
	if !bind(c, &req) {
		return
	}
	m, err := ctl.mecanicos.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, m)
}

// DELETE /api/mecanicos/:id (admin)
func (ctl *MecanicoController) Delete(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := ctl.mecanicos.Delete(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "Mecânico desativado"})
}
