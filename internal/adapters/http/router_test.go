package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/jobportal/internal/adapters/http/middleware"
	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

type stubJobs struct {
	posted []ports.Document
}

func (s *stubJobs) Post(_ context.Context, data ports.Document, _ string) action.Result[*entities.Job] {
	s.posted = append(s.posted, data)
	return action.Ok(&entities.Job{ID: "j1", Title: "Go Developer"})
}

func (s *stubJobs) ForRecruiter(context.Context, string) action.Result[[]entities.Job] {
	return action.Ok([]entities.Job{{ID: "j1"}})
}

func (s *stubJobs) ForCandidate(context.Context, map[string]string) action.Result[[]entities.Job] {
	return action.Ok([]entities.Job{{ID: "j1"}, {ID: "j2"}})
}

func (s *stubJobs) FilterCategories(context.Context) action.Result[[]entities.Job] {
	return action.Ok([]entities.Job{})
}

func testRouterConfig() *RouterConfig {
	cfg := DefaultRouterConfig()
	cfg.Logger = logger.Discard()
	cfg.RateLimit = nil
	return cfg
}

func serve(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDefaultRouterConfig(t *testing.T) {
	cfg := DefaultRouterConfig()

	assert.Equal(t, "jobportal", cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
	assert.NotNil(t, cfg.CORS)
	assert.NotNil(t, cfg.RateLimit)
	assert.NotNil(t, cfg.AuthTokenValidator)
	assert.False(t, cfg.Tracing)
}

func TestNewRouterBuilder_NilConfig(t *testing.T) {
	b := NewRouterBuilder(nil)
	require.NotNil(t, b.config)
	assert.NotNil(t, b.config.Logger)
	assert.NotNil(t, b.Build())
}

func TestRouter_ProbesAndMetrics(t *testing.T) {
	router := NewRouter(testRouterConfig(), Services{})

	for _, path := range []string{"/health", "/live", "/ready", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := serve(router, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRouter_NoRoute(t *testing.T) {
	router := NewRouter(testRouterConfig(), Services{})

	w := serve(router, http.MethodGet, "/api/v1/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_PublicReadsNeedNoToken(t *testing.T) {
	router := NewRouter(testRouterConfig(), Services{Jobs: &stubJobs{}})

	w := serve(router, http.MethodGet, "/api/v1/jobs?type=Internship", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 2)

	w = serve(router, http.MethodGet, "/api/v1/recruiters/r1/jobs", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MutationsRequireToken(t *testing.T) {
	jobs := &stubJobs{}
	router := NewRouter(testRouterConfig(), Services{Jobs: jobs})
	payload := map[string]any{
		"data":           map[string]any{"title": "Go Developer"},
		"revalidatePath": "/jobs",
	}

	w := serve(router, http.MethodPost, "/api/v1/jobs", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, jobs.posted)

	w = serve(router, http.MethodPost, "/api/v1/jobs", "recruiter-1", payload)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, jobs.posted, 1)
	assert.Equal(t, "Go Developer", jobs.posted[0]["title"])
}

func TestRouter_NilValidatorRejectsMutations(t *testing.T) {
	cfg := testRouterConfig()
	cfg.AuthTokenValidator = nil
	router := NewRouter(cfg, Services{Jobs: &stubJobs{}})

	w := serve(router, http.MethodPost, "/api/v1/jobs", "anything", map[string]any{
		"data": map[string]any{"title": "x"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/jobs", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MissingServiceHasNoRoutes(t *testing.T) {
	router := NewRouter(testRouterConfig(), Services{Jobs: &stubJobs{}})

	for _, path := range []string{"/api/v1/feed", "/api/v1/profiles/u1", "/api/v1/candidates/u1/applications"} {
		w := serve(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(testRouterConfig(), Services{Jobs: &stubJobs{}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMutationBurst(t *testing.T) {
	assert.Equal(t, 1, mutationBurst(3))
	assert.Equal(t, 10, mutationBurst(60))
}

func TestIsProbePath(t *testing.T) {
	assert.True(t, isProbePath("/ready"))
	assert.False(t, isProbePath("/api/v1/jobs"))
}
