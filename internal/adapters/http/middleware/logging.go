package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

// LoggingConfig - настройки access-лога.
type LoggingConfig struct {
	Logger *slog.Logger
	// SkipPaths - пробы и /metrics, которые не пишутся в лог
	SkipPaths []string
	// SlowThreshold - запросы дольше порога пишутся на WARN; 0 отключает
	SlowThreshold time.Duration
}

// DefaultLoggingConfig - конфигурация по умолчанию.
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Logger:        slog.Default(),
		SkipPaths:     []string{"/health", "/live", "/ready", "/metrics"},
		SlowThreshold: 2 * time.Second,
	}
}

// Logging пишет одну запись на запрос. Тела не логируются: профили и
// отклики содержат персональные данные.
func Logging(config *LoggingConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultLoggingConfig()
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		level := accessLevel(status)
		attrs := accessAttrs(c, status, elapsed)
		if config.SlowThreshold > 0 && elapsed > config.SlowThreshold {
			attrs = append(attrs, slog.Bool("slow", true))
			level = max(level, slog.LevelWarn)
		}

		log.LogAttrs(requestLogContext(c), level, "HTTP Request", attrs...)
	}
}

func accessLevel(status int) slog.Level {
	if status >= 500 {
		return slog.LevelError
	}
	if status >= 400 {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

func accessAttrs(c *gin.Context, status int, elapsed time.Duration) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("route", c.FullPath()),
		slog.Int("status", status),
		slog.Duration("duration", elapsed),
		slog.Int("response_size", c.Writer.Size()),
		slog.String("client_ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
	}
	if q := c.Request.URL.RawQuery; q != "" {
		attrs = append(attrs, slog.String("query", q))
	}
	if len(c.Errors) > 0 {
		attrs = append(attrs, slog.String("errors", c.Errors.String()))
	}
	return attrs
}

// requestLogContext добавляет в контекст user id из claims Auth.
func requestLogContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if logger.GetUserID(ctx) != "" {
		return ctx
	}
	if id := GetAuthUserID(c); id != "" {
		return logger.WithUserID(ctx, id)
	}
	return ctx
}
