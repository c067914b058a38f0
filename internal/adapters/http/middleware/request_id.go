// Package middleware содержит HTTP middleware для обработки запросов.
//
// Порядок подключения задаёт router: recovery, request id, tracing, CORS,
// logging, rate limit, metrics. Auth подключается только к группам
// с мутациями.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

const (
	// RequestIDHeader - имя заголовка для Request ID
	RequestIDHeader = common.RequestIDKey
	// CorrelationIDHeader - заголовок для сквозного ID между сервисами
	CorrelationIDHeader = "X-Correlation-ID"
)

// RequestID middleware добавляет уникальный ID к каждому запросу.
//
// Если клиент передаёт X-Request-ID - используем его, иначе генерируем UUID.
// ID попадает в заголовок ответа, в gin-контекст и в context.Context запроса,
// откуда его подхватывает logger.ContextHandler.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = requestID
		}

		common.SetRequestID(c, requestID)

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		ctx = logger.WithCorrelationID(ctx, correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID извлекает Request ID из контекста Gin.
func GetRequestID(c *gin.Context) string {
	return common.GetRequestID(c)
}
