package controllers

import (
	"net/http"
	"strings"

	"checar/models"
	"checar/services"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserKey    = "auth_user"
	ctxClienteKey = "auth_cliente"
)

// AuthRequired valida o Bearer token e carrega o usuário (e o cliente ligado a ele) no contexto.
func AuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			RespondError(c, "Token não informado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		token := strings.TrimSpace(h[len("Bearer "):])

		claims, err := auth.ParseAccessToken(token)
		if err != nil {
			RespondAppError(c, err)
			c.Abort()
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			RespondError(c, "Token inválido ou expirado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		user, cliente, err := auth.Me(c.Request.Context(), userID)
		if err != nil {
			RespondError(c, "Usuário não encontrado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, *user)
		if cliente != nil {
			c.Set(ctxClienteKey, cliente)
		}
		c.Next()
	}
}

// GetUserLogged devolve o usuário carregado por AuthRequired.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// GetClienteLogged devolve o cadastro de cliente do usuário logado, se houver.
func GetClienteLogged(c *gin.Context) (*models.Cliente, bool) {
	v, ok := c.Get(ctxClienteKey)
	if !ok {
		return nil, false
	}
	cliente, ok := v.(*models.Cliente)
	return cliente, ok && cliente != nil
}

// canAccessCliente: equipe da oficina acessa tudo; CLIENTE só o próprio cadastro.
// Responde 403 quando não pode.
func canAccessCliente(c *gin.Context, clienteID int64) bool {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "Não autenticado", http.StatusUnauthorized)
		return false
	}
	if user.Role.IsStaff() {
		return true
	}
	if cliente, ok := GetClienteLogged(c); ok && cliente.ID == clienteID {
		return true
	}
	RespondError(c, "Acesso negado", http.StatusForbidden)
	return false
}

// scopeCliente devolve o id do cliente a que o usuário está restrito (0 = sem restrição).
// CLIENTE sem cadastro recebe 403.
func scopeCliente(c *gin.Context) (int64, bool) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "Não autenticado", http.StatusUnauthorized)
		return 0, false
	}
	if user.Role.IsStaff() {
		return 0, true
	}
	cliente, ok := GetClienteLogged(c)
	if !ok {
		RespondError(c, "Acesso negado", http.StatusForbidden)
		return 0, false
	}
	return cliente.ID, true
}
