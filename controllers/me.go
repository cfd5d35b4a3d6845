package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/auth/me
func (ctl *AuthController) Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "Não autenticado", http.StatusUnauthorized)
		return
	}
	cliente, _ := GetClienteLogged(c)
	RespondSuccess(c, gin.H{"user": user, "cliente": cliente})
}
