package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func ParamID(c *gin.Context, name string) (int64, bool) {
	v := c.Param(name)
	if v == "" {
		RespondError(c, name+" é obrigatório", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, name+" inválido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt64 lê um id opcional da query; ausente ou inválido vira 0 (sem filtro).
func queryInt64(c *gin.Context, name string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(c.Query(name)), 10, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

func queryBool(c *gin.Context, name string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return nil
	}
	return &v
}

// queryTime aceita RFC3339 ou só a data (2006-01-02).
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return &t, true
		}
	}
	RespondError(c, name+" inválido", http.StatusBadRequest)
	return nil, false
}
