package controllers

import (
	"github.com/gin-gonic/gin"
)

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// POST /api/auth/refresh
// Rotação: ao usar o refresh token, todas as sessões anteriores do usuário são revogadas.
func (ctl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bind(c, &req) {
		return
	}
	pair, err := ctl.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondSuccess(c, pair)
}
