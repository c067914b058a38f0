// Package middleware - Rate Limiting middleware.
//
// Token bucket на ключ (IP или пользователь) поверх golang.org/x/time/rate.
// Состояние хранится в памяти процесса.
package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
)

// RateLimitConfig - конфигурация для rate limiting.
type RateLimitConfig struct {
	// Name - метка лимитера в метриках
	Name string
	// RequestsPerMinute - устойчивая скорость
	RequestsPerMinute int
	// Burst - сколько запросов можно сделать разом
	Burst int
	// KeyFunc - ключ лимитирования, по умолчанию IP адрес
	KeyFunc func(*gin.Context) string
	// Skip - запросы, к которым лимит не применяется
	Skip func(*gin.Context) bool
	// IdleTTL - через сколько неиспользуемый ключ удаляется
	IdleTTL time.Duration
}

// DefaultRateLimitConfig - конфигурация по умолчанию.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Name:              "global",
		RequestsPerMinute: 300,
		Burst:             50,
		KeyFunc:           func(c *gin.Context) string { return c.ClientIP() },
		IdleTTL:           10 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter хранит limiter на каждый ключ.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
	lastGC   time.Time
}

func newRateLimiter(config *RateLimitConfig) *rateLimiter {
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	ttl := config.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(config.RequestsPerMinute) / 60),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// allow резервирует токен для key. При отказе возвращает задержку
// до следующего доступного токена.
func (rl *rateLimiter) allow(key string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.gc(now)

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, delay
	}
	remaining := int(math.Floor(v.limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, 0
}

// gc удаляет ключи, не использовавшиеся дольше ttl. Вызывается под mu.
func (rl *rateLimiter) gc(now time.Time) {
	if now.Sub(rl.lastGC) < rl.ttl {
		return
	}
	rl.lastGC = now
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, key)
		}
	}
}

func (rl *rateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// RateLimit middleware для ограничения количества запросов.
//
// Headers:
// - X-RateLimit-Limit: запросов в минуту
// - X-RateLimit-Remaining: оставшиеся токены
// - Retry-After: секунд до следующего токена (при 429)
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	name := config.Name
	if name == "" {
		name = "global"
	}

	limiter := newRateLimiter(config)
	limitHeader := strconv.Itoa(config.RequestsPerMinute)

	return func(c *gin.Context) {
		if config.Skip != nil && config.Skip(c) {
			c.Next()
			return
		}

		allowed, remaining, retryAfter := limiter.allow(keyFunc(c))

		c.Header("X-RateLimit-Limit", limitHeader)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			retrySeconds := int(math.Ceil(retryAfter.Seconds()))
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(retrySeconds))
			httpRateLimited.WithLabelValues(name).Inc()

			common.TooManyRequestsResponse(c, retrySeconds)
			return
		}

		c.Next()
	}
}

// ============================================
// Endpoint-specific rate limiters
// ============================================

// MutationRateLimit - отдельный лимит на POST/PUT.
//
// Ключ - пользователь, если запрос уже прошёл Auth, иначе IP.
func MutationRateLimit(perMinute, burst int) gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Name:              "mutations",
		RequestsPerMinute: perMinute,
		Burst:             burst,
		KeyFunc: func(c *gin.Context) string {
			if userID := GetAuthUserID(c); userID != "" {
				return "user:" + userID
			}
			return "ip:" + c.ClientIP()
		},
		Skip: func(c *gin.Context) bool {
			return c.Request.Method == "GET" || c.Request.Method == "OPTIONS" || c.Request.Method == "HEAD"
		},
	})
}
