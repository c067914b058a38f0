// Package middleware - Authentication middleware.
//
// Мутации (POST/PUT) требуют Bearer токен. В production это HS256 JWT,
// подписанный тем же секретом, что и у фронтенда; в development можно
// включить MockTokenValidator.
package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

const (
	// AuthClaimsKey - ключ для хранения AuthClaims в контексте
	AuthClaimsKey = "auth_claims"
)

// TokenValidator проверяет токен и возвращает claims.
type TokenValidator func(token string) (*AuthClaims, error)

// AuthConfig - конфигурация для authentication middleware.
type AuthConfig struct {
	TokenValidator TokenValidator
	// SkipPaths - пути, которые не требуют авторизации
	SkipPaths []string
}

// AuthClaims - данные из токена авторизации.
type AuthClaims struct {
	UserID string
	Email  string
	Role   string
	Exp    time.Time
}

// Auth middleware для проверки авторизации.
//
// Схема работы:
// 1. Извлекает токен из заголовка Authorization
// 2. Валидирует токен через TokenValidator
// 3. Добавляет данные пользователя в gin-контекст и context.Context запроса
// 4. Продолжает обработку или возвращает 401
func Auth(config *AuthConfig) gin.HandlerFunc {
	skipMap := make(map[string]bool, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.UnauthorizedResponse(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.UnauthorizedResponse(c, "Invalid authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			common.UnauthorizedResponse(c, "Token is required")
			return
		}

		claims, err := config.TokenValidator(token)
		if err != nil {
			common.UnauthorizedResponse(c, "Invalid or expired token")
			return
		}

		if !claims.Exp.IsZero() && claims.Exp.Before(time.Now()) {
			common.UnauthorizedResponse(c, "Token has expired")
			return
		}

		c.Set(AuthClaimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireRole middleware проверяет роль пользователя.
//
// Используется после Auth middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	roleMap := make(map[string]bool, len(roles))
	for _, role := range roles {
		roleMap[role] = true
	}

	return func(c *gin.Context) {
		userRole := GetAuthUserRole(c)
		if userRole == "" {
			common.ForbiddenResponse(c, "User role not found")
			return
		}
		if !roleMap[userRole] {
			common.ForbiddenResponse(c, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

// ============================================
// Helper functions для извлечения auth данных
// ============================================

// GetAuthClaims возвращает claims авторизованного пользователя или nil.
func GetAuthClaims(c *gin.Context) *AuthClaims {
	if v, exists := c.Get(AuthClaimsKey); exists {
		if claims, ok := v.(*AuthClaims); ok {
			return claims
		}
	}
	return nil
}

// GetAuthUserID возвращает ID авторизованного пользователя.
func GetAuthUserID(c *gin.Context) string {
	if claims := GetAuthClaims(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// GetAuthUserEmail возвращает email авторизованного пользователя.
func GetAuthUserEmail(c *gin.Context) string {
	if claims := GetAuthClaims(c); claims != nil {
		return claims.Email
	}
	return ""
}

// GetAuthUserRole возвращает роль авторизованного пользователя.
func GetAuthUserRole(c *gin.Context) string {
	if claims := GetAuthClaims(c); claims != nil {
		return claims.Role
	}
	return ""
}

// ============================================
// JWT
// ============================================

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// jwtClaims is the token body: the subject is the user id.
type jwtClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTValidator returns a validator for HS256 tokens signed with secret.
// When issuer is set the iss claim must match it.
func JWTValidator(secret, issuer string) TokenValidator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(secret)

	return func(tokenString string) (*AuthClaims, error) {
		claims := &jwtClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		if !token.Valid || claims.Subject == "" {
			return nil, ErrInvalidToken
		}

		out := &AuthClaims{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}
		if claims.ExpiresAt != nil {
			out.Exp = claims.ExpiresAt.Time
		}
		return out, nil
	}
}

// SignToken issues an HS256 token for claims. Used by tooling and tests.
func SignToken(secret, issuer string, claims AuthClaims) (string, error) {
	body := jwtClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(claims.Exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, body).SignedString([]byte(secret))
}

// ============================================
// Development/Testing Helpers
// ============================================

// MockTokenValidator - mock validator для development/testing.
//
// ВАЖНО: Использовать ТОЛЬКО для разработки! Токен считается user id.
func MockTokenValidator(token string) (*AuthClaims, error) {
	return &AuthClaims{
		UserID: token,
		Email:  "test@example.com",
		Role:   "candidate",
		Exp:    time.Now().Add(24 * time.Hour),
	}, nil
}
