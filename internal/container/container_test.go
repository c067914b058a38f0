package container

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/jobportal/internal/adapters/http/middleware"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/config"
	"github.com/Haleralex/jobportal/internal/infrastructure/invalidation"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

type fakePayments struct{}

func (fakePayments) CreatePrice(context.Context, int64) (string, error) {
	return "price_test", nil
}

func (fakePayments) CreateCheckoutSession(context.Context, []ports.LineItem) (string, error) {
	return "cs_test", nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func build(t *testing.T, cfg *config.Config, rec *invalidation.Recorder) *Container {
	t.Helper()
	c, err := NewBuilder(cfg).
		WithLogger(logger.Discard()).
		WithInvalidator(rec).
		WithPaymentGateway(fakePayments{}).
		Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Shutdown(context.Background())
	})
	return c
}

func call(t *testing.T, c *Container, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.HTTPServer().Handler().ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestNew_BeforeInitialize(t *testing.T) {
	cfg := config.Development()
	c := New(cfg)

	assert.Equal(t, cfg, c.Config())
	assert.Nil(t, c.Logger())
	assert.Nil(t, c.Connections())
	assert.Nil(t, c.HTTPServer())
	assert.Nil(t, c.Jobs())
}

func TestBuild_WiresGateways(t *testing.T) {
	c := build(t, config.Test(), &invalidation.Recorder{})

	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.Connections())
	assert.NotNil(t, c.HTTPServer())
	assert.NotNil(t, c.Profiles())
	assert.NotNil(t, c.Jobs())
	assert.NotNil(t, c.Applications())
	assert.NotNil(t, c.Feed())
	assert.NotNil(t, c.Payments())
}

func TestContainer_PostAndListJobs(t *testing.T) {
	rec := &invalidation.Recorder{}
	c := build(t, config.Test(), rec)

	w, env := call(t, c, http.MethodPost, "/api/v1/jobs", "recruiter-1", map[string]any{
		"data": map[string]any{
			"title":       "Backend Engineer",
			"location":    "Pune",
			"type":        "Full Time",
			"recruiterId": "recruiter-1",
		},
		"revalidatePath": "/jobs",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, []string{"/jobs"}, rec.Paths())

	w, env = call(t, c, http.MethodGet, "/api/v1/recruiters/recruiter-1/jobs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var jobs []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer", jobs[0]["title"])
	assert.NotEmpty(t, jobs[0]["_id"])
}

func TestContainer_MissingDatabaseURL(t *testing.T) {
	cfg := config.Test()
	cfg.Database.URL = ""
	c := build(t, cfg, &invalidation.Recorder{})

	w, env := call(t, c, http.MethodGet, "/api/v1/jobs", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestContainer_Payments(t *testing.T) {
	c := build(t, config.Test(), &invalidation.Recorder{})

	w, env := call(t, c, http.MethodPost, "/api/v1/payments/prices", "u1", map[string]any{"amount": 999})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `"price_test"`, string(env.Data))
}

func TestContainer_JWTAuth(t *testing.T) {
	cfg := config.Test()
	cfg.Auth.EnableMockAuth = false
	c := build(t, cfg, &invalidation.Recorder{})

	body := map[string]any{"data": map[string]any{"userId": "u1", "message": "hello"}}

	w, _ := call(t, c, http.MethodPost, "/api/v1/feed", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.SignToken(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, middleware.AuthClaims{
		UserID: "u1",
		Exp:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	w, env := call(t, c, http.MethodPost, "/api/v1/feed", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)
}

func TestContainer_CORSFromConfig(t *testing.T) {
	cfg := config.Test()
	cfg.CORS.AllowedOrigins = []string{"https://portal.example.com"}
	cfg.CORS.MaxAge = time.Hour
	c := New(cfg)
	c.logger = logger.Discard()

	cors := c.corsConfig()
	assert.Equal(t, []string{"https://portal.example.com"}, cors.AllowOrigins)
	assert.Equal(t, time.Hour, cors.MaxAge)
}

func TestContainer_ShutdownIdempotentWithoutInit(t *testing.T) {
	c := New(config.Test())
	assert.NoError(t, c.Shutdown(context.Background()))
}
