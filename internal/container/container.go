// Package container - composition root приложения.
//
// Container собирает зависимости в одном месте и управляет их жизненным циклом:
// создание, доступ через getters, закрытие в обратном порядке.
// Соединение с хранилищем не открывается при старте: оно устанавливается
// при первом запросе, которому оно нужно.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Haleralex/jobportal/internal/adapters/http"
	"github.com/Haleralex/jobportal/internal/adapters/http/handlers"
	"github.com/Haleralex/jobportal/internal/adapters/http/middleware"
	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/application/usecases/feed"
	"github.com/Haleralex/jobportal/internal/application/usecases/job"
	"github.com/Haleralex/jobportal/internal/application/usecases/jobapplication"
	"github.com/Haleralex/jobportal/internal/application/usecases/payment"
	"github.com/Haleralex/jobportal/internal/application/usecases/profile"
	"github.com/Haleralex/jobportal/internal/config"
	"github.com/Haleralex/jobportal/internal/domain/entities"
	"github.com/Haleralex/jobportal/internal/infrastructure/invalidation"
	stripeadapter "github.com/Haleralex/jobportal/internal/infrastructure/payment"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/connection"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/postgres"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
	"github.com/Haleralex/jobportal/internal/pkg/tracing"
)

// ============================================
// Container
// ============================================

// Container - DI контейнер приложения.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	tracer      *tracing.Provider
	manager     *connection.Manager
	conns       ports.ConnectionProvider
	publishers  []io.Closer
	invalidator ports.Invalidator
	provider    ports.PaymentGateway

	// Gateways
	executor     *action.Executor
	profiles     *profile.Gateway
	jobs         *job.Gateway
	applications *jobapplication.Gateway
	feed         *feed.Gateway
	payments     *payment.Gateway

	// HTTP
	httpServer *http.Server
}

// New создаёт новый контейнер с заданной конфигурацией.
func New(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// ============================================
// Initialization
// ============================================

// Initialize инициализирует все зависимости.
func (c *Container) Initialize(ctx context.Context) error {
	if c.logger == nil {
		c.logger = c.initLogger()
	}
	c.logger.Info("Initializing application container...")

	if err := c.initTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if c.conns == nil {
		c.initConnection()
	}

	if c.invalidator == nil {
		c.initInvalidation(ctx)
	}

	if c.provider == nil {
		c.provider = stripeadapter.New(stripeadapter.Config{
			SecretKey:         c.config.Payments.StripeSecretKey,
			BaseURL:           c.config.Payments.BaseURL,
			MaxNetworkRetries: c.config.Payments.MaxNetworkRetries,
		}, c.logger)
	}

	c.initGateways()
	c.logger.Info("Gateways initialized")

	c.initHTTPServer()
	c.logger.Info("HTTP server initialized", slog.String("address", c.config.Server.Address()))

	return nil
}

// initLogger настраивает default логгер из конфигурации.
func (c *Container) initLogger() *slog.Logger {
	var out io.Writer = os.Stdout
	if strings.EqualFold(c.config.Log.Output, "stderr") {
		out = os.Stderr
	}
	return logger.Setup(&logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		Service:   c.config.App.Name,
		Output:    out,
		AddSource: c.config.Log.AddSource,
	})
}

func (c *Container) initTracing(ctx context.Context) error {
	tp, err := tracing.Setup(ctx, tracing.Config{
		Enabled:       c.config.Tracing.Enabled,
		ServiceName:   c.config.App.Name,
		Environment:   c.config.App.Environment,
		Endpoint:      c.config.Tracing.Endpoint,
		Insecure:      c.config.Tracing.Insecure,
		SampleRatio:   c.config.Tracing.SampleRatio,
		ExportTimeout: c.config.Tracing.Timeout,
	})
	if err != nil {
		return err
	}
	c.tracer = tp
	return nil
}

// initConnection создаёт ленивый менеджер соединения. URL не проверяется здесь.
func (c *Container) initConnection() {
	db := c.config.Database
	dial := persistence.NewDialer(persistence.Options{
		Postgres: postgres.Config{
			MaxConns:        db.MaxConnections,
			MinConns:        db.MinConnections,
			MaxConnLifetime: db.MaxConnLifetime,
			MaxConnIdleTime: db.MaxConnIdleTime,
		},
		Collections: entities.Collections(),
	})
	c.manager = connection.NewManager(connection.Config{
		URL:            db.URL,
		ConnectTimeout: db.ConnectTimeout,
	}, dial, c.logger)
	c.conns = c.manager
}

// initInvalidation подключает настроенные каналы. Недоступный канал
// пропускается с предупреждением: сервис работает и без него.
func (c *Container) initInvalidation(ctx context.Context) {
	inv := c.config.Invalidation
	sinks := invalidation.Fanout{invalidation.NewLog(c.logger)}

	if inv.RedisURL != "" {
		p, err := invalidation.NewRedisPublisher(ctx, invalidation.RedisConfig{
			URL:     inv.RedisURL,
			Channel: inv.RedisChannel,
			Timeout: inv.Timeout,
		}, c.logger)
		if c.addSink(&sinks, "redis", p, err) {
			c.publishers = append(c.publishers, p)
		}
	}

	if inv.NATSURL != "" {
		p, err := invalidation.NewNATSPublisher(invalidation.NATSConfig{
			URL:     inv.NATSURL,
			Subject: inv.NATSSubject,
			Name:    c.config.App.Name,
		}, c.logger)
		if c.addSink(&sinks, "nats", p, err) {
			c.publishers = append(c.publishers, p)
		}
	}

	if inv.MQTTBroker != "" {
		p, err := invalidation.NewMQTTPublisher(invalidation.MQTTConfig{
			Broker:   inv.MQTTBroker,
			ClientID: inv.MQTTClientID,
			Username: inv.MQTTUsername,
			Password: inv.MQTTPassword,
			Topic:    inv.MQTTTopic,
			QoS:      byte(inv.MQTTQoS),
			Timeout:  inv.Timeout,
		}, c.logger)
		if c.addSink(&sinks, "mqtt", p, err) {
			c.publishers = append(c.publishers, p)
		}
	}

	c.invalidator = sinks
}

func (c *Container) addSink(sinks *invalidation.Fanout, name string, sink ports.Invalidator, err error) bool {
	if err != nil {
		c.logger.Warn("Invalidation sink unavailable", slog.String("sink", name), logger.Err(err))
		return false
	}
	*sinks = append(*sinks, sink)
	c.logger.Info("Invalidation sink connected", slog.String("sink", name))
	return true
}

func (c *Container) initGateways() {
	c.executor = action.NewExecutor(c.conns, c.invalidator, c.logger)

	c.profiles = profile.NewGateway(c.executor)
	c.jobs = job.NewGateway(c.executor)
	c.applications = jobapplication.NewGateway(c.executor)
	c.feed = feed.NewGateway(c.executor)
	c.payments = payment.NewGateway(c.executor, c.provider)
}

// tokenValidator выбирает проверку токенов: mock только при enable_mock_auth.
func (c *Container) tokenValidator() middleware.TokenValidator {
	if c.config.Auth.EnableMockAuth {
		c.logger.Warn("Mock authentication is enabled")
		return middleware.MockTokenValidator
	}
	return middleware.JWTValidator(c.config.Auth.JWTSecret, c.config.Auth.JWTIssuer)
}

// initHTTPServer инициализирует HTTP сервер.
func (c *Container) initHTTPServer() {
	routerConfig := &http.RouterConfig{
		Logger:             c.logger,
		ServiceName:        c.config.App.Name,
		Version:            c.config.App.Version,
		BuildTime:          "unknown",
		Environment:        c.config.App.Environment,
		CORS:               c.corsConfig(),
		MutationsPerMinute: c.config.RateLimit.MutationsPerMinute,
		Tracing:            c.config.Tracing.Enabled,
		AuthTokenValidator: c.tokenValidator(),
	}
	// nil *Manager в интерфейсе выглядел бы как настроенная БД
	if c.manager != nil {
		routerConfig.DB = c.manager
	}
	if c.config.RateLimit.Enabled {
		routerConfig.RateLimit = &middleware.RateLimitConfig{
			Name:              "global",
			RequestsPerMinute: c.config.RateLimit.RequestsPerMinute,
			Burst:             c.config.RateLimit.BurstSize,
			IdleTTL:           c.config.RateLimit.CleanupInterval,
		}
	} else {
		routerConfig.MutationsPerMinute = 0
	}

	router := http.NewRouterBuilder(routerConfig).
		WithServices(http.Services{
			Profiles:     c.profiles,
			Jobs:         c.jobs,
			Applications: c.applications,
			Feed:         c.feed,
			Payments:     c.payments,
		}).
		Build()

	c.httpServer = http.NewServer(&http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            c.config.Server.Port,
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}, router)
}

func (c *Container) corsConfig() *middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if c.config.App.IsProduction() {
		cors = middleware.ProductionCORSConfig(c.config.CORS.AllowedOrigins)
	} else if len(c.config.CORS.AllowedOrigins) > 0 {
		cors.AllowOrigins = c.config.CORS.AllowedOrigins
	}
	if len(c.config.CORS.AllowedMethods) > 0 {
		cors.AllowMethods = c.config.CORS.AllowedMethods
	}
	if len(c.config.CORS.AllowedHeaders) > 0 {
		cors.AllowHeaders = c.config.CORS.AllowedHeaders
	}
	if len(c.config.CORS.ExposedHeaders) > 0 {
		cors.ExposeHeaders = c.config.CORS.ExposedHeaders
	}
	cors.AllowCredentials = c.config.CORS.AllowCredentials
	if c.config.CORS.MaxAge > 0 {
		cors.MaxAge = c.config.CORS.MaxAge
	}
	return cors
}

// ============================================
// Getters
// ============================================

// Config возвращает конфигурацию.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger возвращает логгер.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Connections возвращает провайдер соединения с хранилищем.
func (c *Container) Connections() ports.ConnectionProvider {
	return c.conns
}

// HTTPServer возвращает HTTP сервер.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// Profiles возвращает gateway профилей.
func (c *Container) Profiles() *profile.Gateway {
	return c.profiles
}

// Jobs возвращает gateway вакансий.
func (c *Container) Jobs() *job.Gateway {
	return c.jobs
}

// Applications возвращает gateway откликов.
func (c *Container) Applications() *jobapplication.Gateway {
	return c.applications
}

// Feed возвращает gateway ленты.
func (c *Container) Feed() *feed.Gateway {
	return c.feed
}

// Payments возвращает платёжный gateway.
func (c *Container) Payments() *payment.Gateway {
	return c.payments
}

// ============================================
// Shutdown
// ============================================

// Shutdown закрывает компоненты: HTTP сервер, каналы инвалидации, tracer, соединение с БД.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger.Info("Shutting down container...")

	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	for _, p := range c.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("invalidation sink close: %w", err))
		}
	}
	c.publishers = nil

	if err := c.tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}

	if c.manager != nil {
		if err := c.manager.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown errors: %w", err)
	}

	c.logger.Info("Container shutdown complete")
	return nil
}

// ============================================
// Run
// ============================================

// Run обслуживает запросы до отмены ctx, затем закрывает контейнер.
func (c *Container) Run(ctx context.Context) error {
	c.logger.Info("Starting JobPortal API Server",
		slog.String("version", c.config.App.Version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	runErr := c.httpServer.RunWithContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	return errors.Join(runErr, c.Shutdown(shutdownCtx))
}

// ============================================
// Builder Pattern (Alternative)
// ============================================

// ContainerBuilder - builder для контейнера с подменёнными компонентами (тесты, CLI).
type ContainerBuilder struct {
	cfg         *config.Config
	logger      *slog.Logger
	conns       ports.ConnectionProvider
	invalidator ports.Invalidator
	provider    ports.PaymentGateway
}

// NewBuilder создаёт новый builder.
func NewBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg: cfg,
	}
}

// WithLogger устанавливает кастомный логгер.
func (b *ContainerBuilder) WithLogger(l *slog.Logger) *ContainerBuilder {
	b.logger = l
	return b
}

// WithConnectionProvider подменяет менеджер соединения.
func (b *ContainerBuilder) WithConnectionProvider(conns ports.ConnectionProvider) *ContainerBuilder {
	b.conns = conns
	return b
}

// WithInvalidator подменяет каналы инвалидации.
func (b *ContainerBuilder) WithInvalidator(inv ports.Invalidator) *ContainerBuilder {
	b.invalidator = inv
	return b
}

// WithPaymentGateway подменяет платёжного провайдера.
func (b *ContainerBuilder) WithPaymentGateway(p ports.PaymentGateway) *ContainerBuilder {
	b.provider = p
	return b
}

// Build создаёт и инициализирует контейнер.
func (b *ContainerBuilder) Build(ctx context.Context) (*Container, error) {
	c := New(b.cfg)
	c.logger = b.logger
	c.conns = b.conns
	c.invalidator = b.invalidator
	c.provider = b.provider

	if err := c.Initialize(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

var _ handlers.DatabaseProbe = (*connection.Manager)(nil)
