package router

import (
	"net/http"

	"checar/controllers"
	"checar/models"

	"github.com/gin-gonic/gin"
)

// Adminizer libera só para ADMIN.
func Adminizer() gin.HandlerFunc {
	return requireRole(func(r models.Role) bool { return r == models.RoleAdmin }, "Acesso restrito ao administrador")
}

// Staffizer libera para a equipe da oficina (ADMIN e MECANICO).
func Staffizer() gin.HandlerFunc {
	return requireRole(models.Role.IsStaff, "Acesso restrito à oficina")
}

func requireRole(allowed func(models.Role) bool, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok {
			controllers.RespondError(c, "Não autenticado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !allowed(user.Role) {
			controllers.RespondError(c, msg, http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
