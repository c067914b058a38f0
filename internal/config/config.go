// Package config - Application configuration management.
//
// Использует Viper для:
// - Загрузки из YAML файлов
// - Переменных окружения (префикс JOBPORTAL, плюс привычные имена вроде DATABASE_URL)
// - Значений по умолчанию
//
// Перед чтением окружения подхватываются .env.local и .env (godotenv),
// уже заданные переменные они не перезаписывают.
//
// Порядок приоритета (от высшего к низшему):
// 1. Environment variables
// 2. Config file
// 3. Default values
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every application environment variable.
const EnvPrefix = "JOBPORTAL"

// DotEnvFiles are loaded, in order, before the environment is read.
var DotEnvFiles = []string{".env.local", ".env"}

// ============================================
// Main Configuration
// ============================================

// Config - главная структура конфигурации приложения.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Auth         AuthConfig         `mapstructure:"auth"`
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Log          LogConfig          `mapstructure:"log"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	Payments     PaymentsConfig     `mapstructure:"payments"`
	Invalidation InvalidationConfig `mapstructure:"invalidation"`
}

// ============================================
// App Configuration
// ============================================

// AppConfig - конфигурация приложения.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
}

// IsDevelopment возвращает true если окружение development.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction возвращает true если окружение production.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// ============================================
// Server Configuration
// ============================================

// ServerConfig - конфигурация HTTP сервера.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address возвращает полный адрес сервера.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ============================================
// Database Configuration
// ============================================

// DatabaseConfig - конфигурация хранилища документов.
//
// URL не проверяется при старте: его отсутствие обнаруживается при первом
// обращении к хранилищу и сообщается как ошибка конфигурации.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"` // postgres://..., sqlite:///path/to.db
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnections  int32         `mapstructure:"max_connections"`
	MinConnections  int32         `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// ============================================
// Auth Configuration
// ============================================

// AuthConfig - конфигурация аутентификации.
type AuthConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	JWTIssuer      string `mapstructure:"jwt_issuer"`
	EnableMockAuth bool   `mapstructure:"enable_mock_auth"` // Только для development!
}

// ============================================
// CORS Configuration
// ============================================

// CORSConfig - конфигурация CORS.
type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `mapstructure:"exposed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// ============================================
// Rate Limit Configuration
// ============================================

// RateLimitConfig - конфигурация rate limiting.
type RateLimitConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	RequestsPerMinute  int           `mapstructure:"requests_per_minute"`
	BurstSize          int           `mapstructure:"burst_size"`
	MutationsPerMinute int           `mapstructure:"mutations_per_minute"` // POST/PUT
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
}

// ============================================
// Log Configuration
// ============================================

// LogConfig - конфигурация логирования.
type LogConfig struct {
	Level     string `mapstructure:"level"`  // debug, info, warn, error
	Format    string `mapstructure:"format"` // json, text
	Output    string `mapstructure:"output"` // stdout, stderr
	AddSource bool   `mapstructure:"add_source"`
}

// ============================================
// Tracing Configuration
// ============================================

// TracingConfig - экспорт трейсов через OTLP/HTTP.
type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Endpoint    string        `mapstructure:"endpoint"` // host:port
	Insecure    bool          `mapstructure:"insecure"`
	SampleRatio float64       `mapstructure:"sample_ratio"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ============================================
// Payments Configuration
// ============================================

// PaymentsConfig - настройки Stripe. Без ключа платежи отключены.
type PaymentsConfig struct {
	StripeSecretKey   string `mapstructure:"stripe_secret_key"`
	BaseURL           string `mapstructure:"base_url"` // публичный адрес сайта для возврата из checkout
	MaxNetworkRetries int64  `mapstructure:"max_network_retries"`
}

// ============================================
// Invalidation Configuration
// ============================================

// InvalidationConfig - куда отправлять сигналы инвалидации кеша.
// Пустой адрес отключает соответствующий канал; без каналов сигналы только логируются.
type InvalidationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`

	RedisURL     string `mapstructure:"redis_url"`
	RedisChannel string `mapstructure:"redis_channel"`

	NATSURL     string `mapstructure:"nats_url"`
	NATSSubject string `mapstructure:"nats_subject"`

	MQTTBroker   string `mapstructure:"mqtt_broker"`
	MQTTTopic    string `mapstructure:"mqtt_topic"`
	MQTTClientID string `mapstructure:"mqtt_client_id"`
	MQTTUsername string `mapstructure:"mqtt_username"`
	MQTTPassword string `mapstructure:"mqtt_password"`
	MQTTQoS      int    `mapstructure:"mqtt_qos"`
}

// ============================================
// Configuration Loading
// ============================================

// Load загружает конфигурацию из файла и переменных окружения.
//
// configPath - путь к директории с конфигурацией (например, "configs")
// configName - имя файла конфигурации без расширения (например, "config")
func Load(configPath, configName string) (*Config, error) {
	if err := LoadDotEnv(DotEnvFiles...); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/jobportal")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Файл не найден - используем defaults и env vars
	}

	return decode(v)
}

// LoadFromEnv загружает конфигурацию только из переменных окружения.
func LoadFromEnv() (*Config, error) {
	if err := LoadDotEnv(DotEnvFiles...); err != nil {
		return nil, err
	}
	return decode(newViper())
}

// LoadDotEnv loads the files that exist, in order. Variables already in the
// environment, or set by an earlier file, win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat %s: %w", f, err)
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults устанавливает значения по умолчанию.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "JobPortal")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults (url намеренно без значения)
	v.SetDefault("database.url", "")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 0)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.jwt_issuer", "jobportal")
	v.SetDefault("auth.enable_mock_auth", true)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", "12h")

	// Rate Limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 300)
	v.SetDefault("rate_limit.burst_size", 50)
	v.SetDefault("rate_limit.mutations_per_minute", 60)
	v.SetDefault("rate_limit.cleanup_interval", "5m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.add_source", false)

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)
	v.SetDefault("tracing.timeout", "5s")

	// Payments defaults
	v.SetDefault("payments.stripe_secret_key", "")
	v.SetDefault("payments.base_url", "http://localhost:3000")
	v.SetDefault("payments.max_network_retries", 2)

	// Invalidation defaults
	v.SetDefault("invalidation.timeout", "2s")
	v.SetDefault("invalidation.redis_url", "")
	v.SetDefault("invalidation.redis_channel", "jobportal.invalidate")
	v.SetDefault("invalidation.nats_url", "")
	v.SetDefault("invalidation.nats_subject", "jobportal.invalidate")
	v.SetDefault("invalidation.mqtt_broker", "")
	v.SetDefault("invalidation.mqtt_topic", "jobportal/invalidate")
	v.SetDefault("invalidation.mqtt_client_id", "jobportal-api")
	v.SetDefault("invalidation.mqtt_username", "")
	v.SetDefault("invalidation.mqtt_password", "")
	v.SetDefault("invalidation.mqtt_qos", 1)
}

// bindEnvVars привязывает привычные имена переменных окружения.
func bindEnvVars(v *viper.Viper) {
	// Database
	_ = v.BindEnv("database.url", "JOBPORTAL_DATABASE_URL", "DATABASE_URL")

	// Auth
	_ = v.BindEnv("auth.jwt_secret", "JOBPORTAL_AUTH_JWT_SECRET", "JWT_SECRET")

	// Server
	_ = v.BindEnv("server.port", "JOBPORTAL_SERVER_PORT", "PORT")

	// App
	_ = v.BindEnv("app.environment", "JOBPORTAL_APP_ENVIRONMENT", "ENVIRONMENT", "ENV")

	// Payments
	_ = v.BindEnv("payments.stripe_secret_key", "JOBPORTAL_PAYMENTS_STRIPE_SECRET_KEY", "STRIPE_SECRET_KEY")
	_ = v.BindEnv("payments.base_url", "JOBPORTAL_PAYMENTS_BASE_URL", "URL")

	// Invalidation
	_ = v.BindEnv("invalidation.redis_url", "JOBPORTAL_INVALIDATION_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("invalidation.nats_url", "JOBPORTAL_INVALIDATION_NATS_URL", "NATS_URL")
	_ = v.BindEnv("invalidation.mqtt_broker", "JOBPORTAL_INVALIDATION_MQTT_BROKER", "MQTT_BROKER")

	// Tracing
	_ = v.BindEnv("tracing.endpoint", "JOBPORTAL_TRACING_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// ============================================
// Configuration Validation
// ============================================

// Validate валидирует конфигурацию. database.url не проверяется.
func (c *Config) Validate() error {
	if c.App.IsProduction() {
		if c.Auth.JWTSecret == "change-me-in-production" {
			return fmt.Errorf("JWT secret must be changed in production")
		}
		if c.Auth.EnableMockAuth {
			return fmt.Errorf("mock auth must be disabled in production")
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample ratio must be within [0, 1]: %v", c.Tracing.SampleRatio)
	}

	if c.Invalidation.MQTTQoS < 0 || c.Invalidation.MQTTQoS > 2 {
		return fmt.Errorf("invalid mqtt qos: %d", c.Invalidation.MQTTQoS)
	}

	return nil
}

// ============================================
// Development Helpers
// ============================================

// Development возвращает конфигурацию для разработки.
func Development() *Config {
	return &Config{
		App: AppConfig{
			Name:        "JobPortal",
			Version:     "dev",
			Environment: "development",
			Debug:       true,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             "sqlite://jobportal.db",
			ConnectTimeout:  10 * time.Second,
			MaxConnections:  10,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret:      "dev-secret-key",
			JWTIssuer:      "jobportal-dev",
			EnableMockAuth: true,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:            true,
			RequestsPerMinute:  300,
			BurstSize:          50,
			MutationsPerMinute: 60,
			CleanupInterval:    5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
		},
		Tracing: TracingConfig{
			SampleRatio: 1,
			Insecure:    true,
			Timeout:     5 * time.Second,
		},
		Payments: PaymentsConfig{
			BaseURL: "http://localhost:3000",
		},
		Invalidation: InvalidationConfig{
			Timeout:      2 * time.Second,
			RedisChannel: "jobportal.invalidate",
			NATSSubject:  "jobportal.invalidate",
			MQTTTopic:    "jobportal/invalidate",
			MQTTClientID: "jobportal-dev",
			MQTTQoS:      1,
		},
	}
}

// Test возвращает конфигурацию для тестов.
func Test() *Config {
	cfg := Development()
	cfg.App.Environment = "test"
	cfg.Database.URL = "sqlite::memory:"
	cfg.RateLimit.Enabled = false
	cfg.Log.Level = "error" // Меньше шума в тестах
	return cfg
}
