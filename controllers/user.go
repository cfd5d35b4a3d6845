package controllers

import (
	"checar/services"

	"github.com/gin-gonic/gin"
)

// POST /api/usuarios (admin)
// Cria contas da oficina (ADMIN/MECANICO) ou de cliente sem cadastro.
func (ctl *AuthController) CreateUser(c *gin.Context) {
	var req services.UserInput
	if !bind(c, &req) {
		return
	}
	user, err := ctl.auth.CreateUser(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, user)
}
