package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"checar/tools"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adiciona as tags cpf e placa ao validator do gin.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validator do gin não é go-playground/validator")
	}
	// mensagens usam o nome do campo no JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return tools.ValidateCPF(tools.NormalizeCPF(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("placa", func(fl validator.FieldLevel) bool {
		return tools.ValidatePlaca(tools.NormalizePlaca(fl.Field().String()))
	})
}

// bind faz o ShouldBindJSON e responde 400 com uma mensagem legível.
func bind(c *gin.Context, dest any) bool {
	return bindResult(c, c.ShouldBindJSON(dest))
}

// bindOptional aceita corpo vazio (dest fica com os valores zero).
func bindOptional(c *gin.Context, dest any) bool {
	err := c.ShouldBindJSON(dest)
	if errors.Is(err, io.EOF) {
		return true
	}
	return bindResult(c, err)
}

func bindResult(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, validationMessage(fe))
		}
		RespondError(c, strings.Join(msgs, "; "), http.StatusBadRequest)
		return false
	}
	RespondError(c, "JSON inválido", http.StatusBadRequest)
	return false
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", field)
	case "email":
		return fmt.Sprintf("%s deve ser um e-mail válido", field)
	case "cpf":
		return "CPF inválido"
	case "placa":
		return "Placa inválida"
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s caracteres", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s deve ser menor ou igual a %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s inválido", field)
}
