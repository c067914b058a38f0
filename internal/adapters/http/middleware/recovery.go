package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

// RecoveryConfig - настройки перехвата паник.
type RecoveryConfig struct {
	Logger *slog.Logger
	// EnableStackTrace добавляет stack в запись лога
	EnableStackTrace bool
}

// DefaultRecoveryConfig - конфигурация по умолчанию.
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{
		Logger:           slog.Default(),
		EnableStackTrace: true,
	}
}

// Recovery превращает панику транспортного слоя в 500 с кодом INTERNAL_ERROR.
// Паники внутри операций gateway перехватывает executor.
func Recovery(config *RecoveryConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRecoveryConfig()
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}

			if clientGone(err) {
				log.WarnContext(c.Request.Context(), "Client connection lost",
					logger.Err(err),
					slog.String("path", c.Request.URL.Path))
				c.Abort()
				return
			}

			attrs := []slog.Attr{
				logger.Err(err),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("request_id", GetRequestID(c)),
			}
			if config.EnableStackTrace {
				attrs = append(attrs, slog.String("stack", string(debug.Stack())))
			}
			log.LogAttrs(c.Request.Context(), slog.LevelError, "Panic recovered", attrs...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			common.InternalErrorResponse(c)
		}()

		c.Next()
	}
}

// clientGone сообщает, что клиент закрыл соединение и писать ответ некуда.
func clientGone(err error) bool {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(opErr.Err, &sysErr) {
		msg := strings.ToLower(sysErr.Error())
		return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
	}
	return false
}
