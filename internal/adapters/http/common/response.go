// Package common содержит общие типы для HTTP слоя.
//
// Вынесен в отдельный пакет чтобы избежать циклических импортов
// между handlers и основным http пакетом.
//
// Ответы бывают двух видов:
// - результат операции gateway (action.Result) отдаётся как есть: {success, data} или {success, message}
// - ошибки транспорта (невалидное тело, 401, 404, 429) - в формате APIResponse с кодом ошибки
package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/jobportal/internal/application/action"
)

// ============================================
// Transport Error Format
// ============================================

// APIResponse - формат ответа для ошибок транспортного уровня.
type APIResponse struct {
	Success   bool      `json:"success"`
	Error     *APIError `json:"error,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError - структура ошибки API.
type APIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Fields     []FieldError           `json:"fields,omitempty"`
	RetryAfter int                    `json:"retry_after,omitempty"`
}

// FieldError - ошибка конкретного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ============================================
// Error Codes
// ============================================

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ============================================
// Request ID
// ============================================

// RequestIDKey - заголовок и ключ gin-контекста для Request ID.
const RequestIDKey = "X-Request-ID"

// GetRequestID возвращает Request ID из контекста.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// SetRequestID устанавливает Request ID в контекст и заголовок ответа.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
	c.Header(RequestIDKey, id)
}

// ============================================
// Operation Results
// ============================================

// StatusFor выбирает HTTP статус для результата операции:
// успех - okStatus, ошибка конфигурации - 503, любая другая ошибка - 500.
func StatusFor[T any](res action.Result[T], okStatus int) int {
	switch {
	case res.Success:
		return okStatus
	case res.ConfigError() != nil:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Render отправляет результат операции.
func Render[T any](c *gin.Context, okStatus int, res action.Result[T]) {
	c.JSON(StatusFor(res, okStatus), res)
}

// ============================================
// Transport Errors
// ============================================

// Error отправляет ответ с ошибкой и прерывает цепочку handlers.
func Error(c *gin.Context, statusCode int, apiError *APIError) {
	c.AbortWithStatusJSON(statusCode, APIResponse{
		Success:   false,
		Error:     apiError,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// ValidationErrorResponse создаёт ответ для ошибок валидации.
func ValidationErrorResponse(c *gin.Context, fields []FieldError) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeValidation,
		Message: "Request validation failed",
		Fields:  fields,
	})
}

// BadRequestResponse создаёт ответ для некорректного запроса.
func BadRequestResponse(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, &APIError{Code: ErrCodeBadRequest, Message: message})
}

// NotFoundResponse создаёт ответ для неизвестного маршрута.
func NotFoundResponse(c *gin.Context) {
	Error(c, http.StatusNotFound, &APIError{
		Code:    ErrCodeNotFound,
		Message: "Endpoint not found",
		Details: map[string]interface{}{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		},
	})
}

// UnauthorizedResponse создаёт ответ для 401.
func UnauthorizedResponse(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, &APIError{Code: ErrCodeUnauthorized, Message: message})
}

// ForbiddenResponse создаёт ответ для 403.
func ForbiddenResponse(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, &APIError{Code: ErrCodeForbidden, Message: message})
}

// TooManyRequestsResponse создаёт ответ для rate limiting.
func TooManyRequestsResponse(c *gin.Context, retryAfter int) {
	Error(c, http.StatusTooManyRequests, &APIError{
		Code:       ErrCodeTooManyRequests,
		Message:    "Too many requests, please try again later",
		RetryAfter: retryAfter,
	})
}

// InternalErrorResponse создаёт ответ для внутренней ошибки.
func InternalErrorResponse(c *gin.Context) {
	Error(c, http.StatusInternalServerError, &APIError{
		Code:    ErrCodeInternal,
		Message: "An unexpected error occurred",
	})
}
