// Package http содержит HTTP адаптер (REST API) портала.
//
// Структура пакета:
// - common/: общие типы ответов (вынесены для избежания циклических импортов)
// - middleware/: HTTP middleware (auth, logging, recovery, rate limit)
// - handlers/: HTTP handlers для каждой коллекции
// - router.go: конфигурация маршрутов
// - server.go: HTTP server lifecycle
//
// Чтение открыто, мутации (POST/PUT) требуют Bearer токен.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Haleralex/jobportal/internal/adapters/http/common"
	"github.com/Haleralex/jobportal/internal/adapters/http/handlers"
	"github.com/Haleralex/jobportal/internal/adapters/http/middleware"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig - конфигурация роутера.
type RouterConfig struct {
	Logger *slog.Logger
	// DB - менеджер соединения для health checks; nil отключает проверку
	DB          handlers.DatabaseProbe
	ServiceName string
	Version     string
	BuildTime   string
	// Environment (development, staging, production)
	Environment string
	CORS        *middleware.CORSConfig
	// RateLimit - общий лимит; nil отключает rate limiting
	RateLimit *middleware.RateLimitConfig
	// MutationsPerMinute - отдельный лимит на POST/PUT; 0 отключает
	MutationsPerMinute int
	// Tracing включает otelgin
	Tracing bool
	// AuthTokenValidator - функция валидации токена
	AuthTokenValidator middleware.TokenValidator
}

// DefaultRouterConfig - конфигурация по умолчанию для development.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:             slog.Default(),
		ServiceName:        "jobportal",
		Version:            "dev",
		BuildTime:          "unknown",
		Environment:        "development",
		CORS:               middleware.DefaultCORSConfig(),
		RateLimit:          middleware.DefaultRateLimitConfig(),
		MutationsPerMinute: 60,
		AuthTokenValidator: middleware.MockTokenValidator,
	}
}

// ============================================
// Services
// ============================================

// Services - gateways, которые обслуживает API. Nil gateway - его маршруты не регистрируются.
type Services struct {
	Profiles     handlers.ProfileService
	Jobs         handlers.JobService
	Applications handlers.ApplicationService
	Feed         handlers.FeedService
	Payments     handlers.PaymentService
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder - builder для создания роутера.
type RouterBuilder struct {
	config   *RouterConfig
	services Services
}

// NewRouterBuilder создаёт новый builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.AuthTokenValidator == nil {
		config.AuthTokenValidator = rejectAll
	}
	return &RouterBuilder{config: config}
}

// WithServices добавляет gateways.
func (b *RouterBuilder) WithServices(services Services) *RouterBuilder {
	b.services = services
	return b
}

// Build создаёт сконфигурированный Gin Engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupValidator()

	// ============================================
	// Global Middleware
	// ============================================

	// 1. Recovery - должен быть первым
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))

	// 2. Request ID
	router.Use(middleware.RequestID())

	// 3. Tracing: span на запрос, trace id попадает в логи через ContextHandler
	if b.config.Tracing {
		router.Use(otelgin.Middleware(b.config.ServiceName,
			otelgin.WithFilter(func(r *http.Request) bool {
				return !isProbePath(r.URL.Path)
			}),
		))
	}

	// 4. CORS
	router.Use(middleware.CORS(b.config.CORS))

	// 5. Logging
	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:        b.config.Logger,
		SkipPaths:     probePaths,
		SlowThreshold: 2 * time.Second,
	}))

	// 6. Rate Limiting (global)
	if b.config.RateLimit != nil {
		router.Use(middleware.RateLimit(b.config.RateLimit))
	}

	// 7. Metrics (Prometheus)
	router.Use(middleware.Metrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.NewHealthHandler(b.config.DB, b.config.Version, b.config.BuildTime).RegisterRoutes(router)

	// ============================================
	// API v1 Routes
	// ============================================

	v1 := router.Group("/api/v1")

	public := v1.Group("")

	protected := v1.Group("")
	protected.Use(middleware.Auth(&middleware.AuthConfig{
		TokenValidator: b.config.AuthTokenValidator,
	}))
	if b.config.MutationsPerMinute > 0 {
		protected.Use(middleware.MutationRateLimit(b.config.MutationsPerMinute, mutationBurst(b.config.MutationsPerMinute)))
	}

	if s := b.services.Profiles; s != nil {
		h := handlers.NewProfileHandler(s)
		public.GET("/profiles/:userId", h.GetProfile)
		public.GET("/candidates/:userId", h.GetCandidateDetails)
		protected.POST("/profiles", h.CreateProfile)
		protected.PUT("/profiles", h.UpdateProfile)
	}

	if s := b.services.Jobs; s != nil {
		h := handlers.NewJobHandler(s)
		public.GET("/jobs", h.ListJobs)
		public.GET("/jobs/filters", h.FilterCategories)
		public.GET("/recruiters/:id/jobs", h.ListRecruiterJobs)
		protected.POST("/jobs", h.PostJob)
	}

	if s := b.services.Applications; s != nil {
		h := handlers.NewApplicationHandler(s)
		public.GET("/candidates/:userId/applications", h.ListCandidateApplications)
		public.GET("/recruiters/:id/applications", h.ListRecruiterApplications)
		protected.POST("/applications", h.CreateApplication)
		protected.PUT("/applications", h.UpdateApplication)
	}

	if s := b.services.Feed; s != nil {
		h := handlers.NewFeedHandler(s)
		public.GET("/feed", h.ListPosts)
		protected.POST("/feed", h.CreatePost)
		protected.PUT("/feed", h.UpdatePost)
	}

	if s := b.services.Payments; s != nil {
		h := handlers.NewPaymentHandler(s)
		protected.POST("/payments/prices", h.CreatePrice)
		protected.POST("/payments/checkout", h.CreateCheckout)
	}

	router.NoRoute(common.NotFoundResponse)

	return router
}

var probePaths = []string{"/health", "/health/detailed", "/live", "/ready", "/metrics"}

func isProbePath(path string) bool {
	for _, p := range probePaths {
		if p == path {
			return true
		}
	}
	return false
}

func mutationBurst(perMinute int) int {
	burst := perMinute / 6
	if burst < 1 {
		burst = 1
	}
	return burst
}

// rejectAll используется, когда validator не настроен: мутации недоступны.
func rejectAll(string) (*middleware.AuthClaims, error) {
	return nil, middleware.ErrInvalidToken
}

// NewRouter создаёт роутер (для простых случаев).
func NewRouter(config *RouterConfig, services Services) *gin.Engine {
	return NewRouterBuilder(config).WithServices(services).Build()
}
