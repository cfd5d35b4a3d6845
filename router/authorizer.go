package router

import (
	"net/http"

	"checar/controllers"

	"github.com/gin-gonic/gin"
)

// Authorizer bloqueia rotas protegidas quando a conta está desativada.
func Authorizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok {
			controllers.RespondError(c, "Não autenticado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !user.Ativo {
			controllers.RespondError(c, "Usuário inativo", http.StatusUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
