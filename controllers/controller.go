package controllers

import (
	"errors"
	"net/http"

	"checar/pagination"
	"checar/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RespondError devolve o envelope de erro: {success:false, error, message, statusCode}.
func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{
		"success":    false,
		"error":      http.StatusText(code),
		"message":    msg,
		"statusCode": code,
	})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": payload})
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": payload})
}

func RespondPaginated[T any](c *gin.Context, res pagination.Result[T]) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res.Data, "meta": res.Meta})
}

// RespondAppError traduz o erro do service no status HTTP.
// Erros sem categoria viram 500 e a mensagem interna só vai pro log.
func RespondAppError(c *gin.Context, err error) {
	var appErr *services.Error
	if !errors.As(err, &appErr) {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Erro interno")
		RespondError(c, "Erro interno do servidor", http.StatusInternalServerError)
		return
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, services.ErrBadRequest):
		code = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		code = http.StatusForbidden
	}
	RespondError(c, appErr.Message, code)
}
