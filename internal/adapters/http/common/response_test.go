package common

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/action/actiontest"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	c.Set(RequestIDKey, "test-request-123")
	return c, w
}

func configFailure() action.Result[[]entities.Job] {
	conns := &actiontest.ConnectionProvider{
		AcquireFunc: func(context.Context) (ports.Session, error) {
			return nil, domainerrors.NewConfigError("database.url", "missing")
		},
	}
	exec := action.NewExecutor(conns, nil, logger.Discard())
	return action.FindMany[entities.Job](context.Background(), exec, action.Operation{
		Name:    "fetchJobs",
		Schema:  entities.JobSchema,
		Message: "Failed to fetch jobs.",
	})
}

func TestRequestID(t *testing.T) {
	c, w := setupTestContext()
	assert.Equal(t, "test-request-123", GetRequestID(c))

	SetRequestID(c, "new-id-456")
	assert.Equal(t, "new-id-456", GetRequestID(c))
	assert.Equal(t, "new-id-456", w.Header().Get(RequestIDKey))

	empty, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetRequestID(empty))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusCreated, StatusFor(action.Ok("x"), http.StatusCreated))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(action.Fail[string]("Failed to fetch jobs."), http.StatusOK))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(configFailure(), http.StatusOK))
}

func TestRender_Success(t *testing.T) {
	c, w := setupTestContext()

	Render(c, http.StatusOK, action.Ok([]entities.Job{}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestRender_NullRecord(t *testing.T) {
	c, w := setupTestContext()

	Render(c, http.StatusOK, action.Ok[*entities.Profile](nil))

	assert.JSONEq(t, `{"success":true,"data":null}`, w.Body.String())
}

func TestRender_Failure(t *testing.T) {
	c, w := setupTestContext()

	Render(c, http.StatusOK, action.Fail[*entities.Profile]("Failed to fetch profile."))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to fetch profile."}`, w.Body.String())
}

func TestRender_ConfigFailure(t *testing.T) {
	c, w := setupTestContext()

	Render(c, http.StatusOK, configFailure())

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to fetch jobs."}`, w.Body.String())
}

func TestTransportErrors(t *testing.T) {
	tests := []struct {
		name   string
		write  func(c *gin.Context)
		status int
		code   string
	}{
		{"bad request", func(c *gin.Context) { BadRequestResponse(c, "bad") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"validation", func(c *gin.Context) {
			ValidationErrorResponse(c, []FieldError{{Field: "amount", Message: "required", Code: "required"}})
		}, http.StatusBadRequest, ErrCodeValidation},
		{"not found", NotFoundResponse, http.StatusNotFound, ErrCodeNotFound},
		{"unauthorized", func(c *gin.Context) { UnauthorizedResponse(c, "no") }, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"forbidden", func(c *gin.Context) { ForbiddenResponse(c, "no") }, http.StatusForbidden, ErrCodeForbidden},
		{"rate limited", func(c *gin.Context) { TooManyRequestsResponse(c, 7) }, http.StatusTooManyRequests, ErrCodeTooManyRequests},
		{"internal", InternalErrorResponse, http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := setupTestContext()
			tt.write(c)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())

			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "test-request-123", resp.RequestID)
		})
	}
}
