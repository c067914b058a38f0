package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		expected    bool
	}{
		{"development", "development", true},
		{"production", "production", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{Environment: tt.environment}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}

func TestAppConfig_IsProduction(t *testing.T) {
	assert.True(t, (&AppConfig{Environment: "production"}).IsProduction())
	assert.False(t, (&AppConfig{Environment: "staging"}).IsProduction())
	assert.False(t, (&AppConfig{}).IsProduction())
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     int
		expected string
	}{
		{"localhost", "localhost", 8080, "localhost:8080"},
		{"all interfaces", "0.0.0.0", 3000, "0.0.0.0:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ServerConfig{Host: tt.host, Port: tt.port}
			assert.Equal(t, tt.expected, cfg.Address())
		})
	}
}

func TestConfig_Validate_Development(t *testing.T) {
	assert.NoError(t, Development().Validate())
}

func TestConfig_Validate_MissingDatabaseURLIsAllowed(t *testing.T) {
	cfg := Development()
	cfg.Database.URL = ""

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_Production_DefaultJWTSecret(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "production"},
		Auth:   AuthConfig{JWTSecret: "change-me-in-production"},
		Server: ServerConfig{Port: 8080},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret must be changed")
}

func TestConfig_Validate_Production_MockAuthEnabled(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "production"},
		Auth:   AuthConfig{JWTSecret: "super-secure-secret", EnableMockAuth: true},
		Server: ServerConfig{Port: 8080},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock auth must be disabled")
}

func TestConfig_Validate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := &Config{Server: ServerConfig{Port: port}}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	}
}

func TestConfig_Validate_SampleRatioAndQoS(t *testing.T) {
	cfg := Development()
	cfg.Tracing.SampleRatio = 1.5
	assert.Error(t, cfg.Validate())

	cfg = Development()
	cfg.Invalidation.MQTTQoS = 3
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_Production_Valid(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "production"},
		Auth:   AuthConfig{JWTSecret: "my-super-secure-production-secret"},
		Server: ServerConfig{Port: 8080},
	}

	assert.NoError(t, cfg.Validate())
}

func TestDevelopment(t *testing.T) {
	cfg := Development()

	assert.Equal(t, "JobPortal", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite://jobportal.db", cfg.Database.URL)
	assert.True(t, cfg.Auth.EnableMockAuth)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestTest(t *testing.T) {
	cfg := Test()

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, "sqlite::memory:", cfg.Database.URL)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JOBPORTAL_APP_ENVIRONMENT", "staging")
	t.Setenv("JOBPORTAL_SERVER_PORT", "9000")
	t.Setenv("JOBPORTAL_INVALIDATION_MQTT_TOPIC", "site/stale")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "site/stale", cfg.Invalidation.MQTTTopic)
}

func TestLoadFromEnv_ConventionalNames(t *testing.T) {
	t.Setenv("JOBPORTAL_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/jobs")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("URL", "https://jobs.example.com")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("PORT", "3000")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/jobs", cfg.Database.URL)
	assert.Equal(t, "sk_test_123", cfg.Payments.StripeSecretKey)
	assert.Equal(t, "https://jobs.example.com", cfg.Payments.BaseURL)
	assert.Equal(t, "redis://cache:6379/0", cfg.Invalidation.RedisURL)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadFromEnv_NoDatabaseURL(t *testing.T) {
	t.Setenv("JOBPORTAL_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path", "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "JobPortal", cfg.App.Name)
	assert.Equal(t, "jobportal.invalidate", cfg.Invalidation.RedisChannel)
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: 7000\nlog:\n  level: warn\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jobportal.yaml"), []byte(yaml), 0o600))
	t.Setenv("JOBPORTAL_LOG_LEVEL", "error")

	cfg, err := Load(dir, "jobportal")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("JOBPORTAL_TEST_DOTENV=local\n"), 0o600))
	require.NoError(t, os.WriteFile(shared, []byte("JOBPORTAL_TEST_DOTENV=shared\nJOBPORTAL_TEST_DOTENV_ONLY_SHARED=yes\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("JOBPORTAL_TEST_DOTENV")
		_ = os.Unsetenv("JOBPORTAL_TEST_DOTENV_ONLY_SHARED")
	})

	require.NoError(t, LoadDotEnv(local, shared, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "local", os.Getenv("JOBPORTAL_TEST_DOTENV"))
	assert.Equal(t, "yes", os.Getenv("JOBPORTAL_TEST_DOTENV_ONLY_SHARED"))
}
