// Package handlers содержит HTTP handlers для REST API.
//
// Handler - адаптер: принимает HTTP запрос, вызывает gateway и отдаёт
// его action.Result как есть. Ошибки транспорта (невалидное тело, пустой
// параметр) отдаются через common до вызова gateway.
package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
	"github.com/Haleralex/jobportal/internal/application/ports"
)

// MutationRequest - тело POST/PUT запроса: документ и путь для инвалидации.
type MutationRequest struct {
	Data           ports.Document `json:"data" binding:"required"`
	RevalidatePath string         `json:"revalidatePath" binding:"omitempty,revalidate_path"`
}

var registerRules sync.Once

// SetupValidator регистрирует правила gateway в validator движке gin.
func SetupValidator() {
	registerRules.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("revalidate_path", isRevalidatePath)
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// isRevalidatePath - путь страницы фронтенда: абсолютный, без схемы и хоста.
func isRevalidatePath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	switch {
	case p == "":
		return true
	case !strings.HasPrefix(p, "/"), strings.HasPrefix(p, "//"):
		return false
	default:
		return !strings.ContainsAny(p, " \t\r\n")
	}
}

var ruleMessages = map[string]func(param string) string{
	"required":        func(string) string { return "This field is required" },
	"gte":             func(p string) string { return "Value must be at least " + p },
	"min":             func(p string) string { return "Value is too short (minimum: " + p + ")" },
	"revalidate_path": func(string) string { return "Path must start with '/'" },
}

func describe(fe validator.FieldError) common.FieldError {
	msg := "Invalid value"
	if f, ok := ruleMessages[fe.Tag()]; ok {
		msg = f(fe.Param())
	}
	return common.FieldError{Field: fe.Field(), Message: msg, Code: fe.Tag()}
}

// HandleValidationErrors отвечает 400: VALIDATION_ERROR с ошибками полей или BAD_REQUEST, если тело не разобрано.
func HandleValidationErrors(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		common.BadRequestResponse(c, "Invalid request body: "+err.Error())
		return
	}

	fields := make([]common.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describe(fe))
	}
	common.ValidationErrorResponse(c, fields)
}

// BindJSON разбирает тело в req; при false ответ уже отправлен.
func BindJSON[T any](c *gin.Context, req *T) bool {
	err := c.ShouldBindJSON(req)
	if err != nil {
		HandleValidationErrors(c, err)
	}
	return err == nil
}

// PathParam возвращает непустой параметр пути или отвечает ошибкой валидации.
func PathParam(c *gin.Context, name string) (string, bool) {
	if value := strings.TrimSpace(c.Param(name)); value != "" {
		return value, true
	}
	common.ValidationErrorResponse(c, []common.FieldError{
		{Field: name, Message: ruleMessages["required"](""), Code: "required"},
	})
	return "", false
}
