package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig - конфигурация CORS.
type CORSConfig struct {
	// AllowOrigins - разрешённые origins; "*" разрешает все
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	// MaxAge - время кеширования preflight запроса
	MaxAge time.Duration
}

// DefaultCORSConfig - конфигурация по умолчанию.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			RequestIDHeader,
		},
		ExposeHeaders: []string{
			RequestIDHeader,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		MaxAge: 24 * time.Hour,
	}
}

// ProductionCORSConfig - конфигурация для production.
func ProductionCORSConfig(allowedOrigins []string) *CORSConfig {
	config := DefaultCORSConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	return config
}

// corsPolicy - заранее вычисленные заголовки CORSConfig.
type corsPolicy struct {
	anyOrigin   bool
	origins     map[string]struct{}
	credentials bool
	headers     map[string]string
}

func newCORSPolicy(config *CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins:     make(map[string]struct{}, len(config.AllowOrigins)),
		credentials: config.AllowCredentials,
		headers: map[string]string{
			"Access-Control-Allow-Methods":  strings.Join(config.AllowMethods, ", "),
			"Access-Control-Allow-Headers":  strings.Join(config.AllowHeaders, ", "),
			"Access-Control-Expose-Headers": strings.Join(config.ExposeHeaders, ", "),
			"Access-Control-Max-Age":        strconv.FormatInt(int64(config.MaxAge/time.Second), 10),
		},
	}
	if p.credentials {
		p.headers["Access-Control-Allow-Credentials"] = "true"
	}
	for _, o := range config.AllowOrigins {
		if o == "*" {
			p.anyOrigin = true
			continue
		}
		p.origins[o] = struct{}{}
	}
	return p
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin, or ""
// when the origin is not allowed. Browsers reject "*" on credentialed
// requests, so the request origin is echoed instead.
func (p *corsPolicy) allowedOrigin(origin string) string {
	if _, ok := p.origins[origin]; ok {
		return origin
	}
	if !p.anyOrigin {
		return ""
	}
	if p.credentials && origin != "" {
		return origin
	}
	return "*"
}

// CORS отвечает на preflight (204) и добавляет CORS заголовки разрешённым origins.
// Запрос с неразрешённого origin проходит без заголовков; его блокирует браузер.
func CORS(config *CORSConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultCORSConfig()
	}
	policy := newCORSPolicy(config)

	return func(c *gin.Context) {
		allowed := policy.allowedOrigin(c.GetHeader("Origin"))
		if allowed == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowed)
		if allowed != "*" {
			h.Add("Vary", "Origin")
		}
		for k, v := range policy.headers {
			h.Set(k, v)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
