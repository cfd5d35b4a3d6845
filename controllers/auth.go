package controllers

import (
	"net/http"

	"checar/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	SenhaAtual string `json:"senhaAtual" binding:"required"`
	NovaSenha  string `json:"novaSenha" binding:"required,min=6"`
}

// POST /api/auth/register
func (ctl *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bind(c, &req) {
		return
	}
	resp, err := ctl.auth.Register(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, resp)
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}
	resp, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, resp)
}

// POST /api/auth/logout
// Sem refreshToken no corpo, derruba todas as sessões do usuário.
func (ctl *AuthController) Logout(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "Não autenticado", http.StatusUnauthorized)
		return
	}
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := ctl.auth.Logout(c.Request.Context(), user.ID, req.RefreshToken); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "Logout realizado"})
}

// PUT /api/auth/password
func (ctl *AuthController) ChangePassword(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "Não autenticado", http.StatusUnauthorized)
		return
	}
	var req ChangePasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := ctl.auth.ChangePassword(c.Request.Context(), user.ID, req.SenhaAtual, req.NovaSenha); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "Senha alterada"})
}
