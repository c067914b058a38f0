// Package handlers - Health check handlers.
//
// Два типа health checks:
// - Liveness: процесс жив (без I/O)
// - Readiness: хранилище доступно; соединение устанавливается через общий менеджер
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/connection"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/postgres"
)

// DatabaseProbe - то, что health handler знает о менеджере соединения.
type DatabaseProbe interface {
	ports.ConnectionProvider
	Status() connection.Status
}

// poolStater реализуют сессии с пулом соединений (postgres).
type poolStater interface {
	Stats() postgres.PoolStats
}

// ============================================
// Health Check Handler
// ============================================

// HealthHandler обрабатывает health check запросы.
type HealthHandler struct {
	db           DatabaseProbe
	version      string
	buildTime    string
	startTime    time.Time
	probeTimeout time.Duration
}

// NewHealthHandler создаёт новый HealthHandler. db может быть nil.
func NewHealthHandler(db DatabaseProbe, version, buildTime string) *HealthHandler {
	return &HealthHandler{
		db:           db,
		version:      version,
		buildTime:    buildTime,
		startTime:    time.Now(),
		probeTimeout: 2 * time.Second,
	}
}

// ============================================
// Response Types
// ============================================

// HealthResponse - ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"` // "healthy", "unhealthy"
	Version   string            `json:"version"`
	BuildTime string            `json:"build_time"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessResponse - ответ readiness check.
type ReadinessResponse struct {
	Ready     bool              `json:"ready"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// ============================================
// HTTP Handlers
// ============================================

// Health возвращает базовый health статус.
//
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	})
}

// Ready проверяет, что хранилище доступно.
//
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := make(map[string]string)
	ready := true

	if h.db == nil {
		checks["database"] = "not configured"
	} else if err := h.ping(c.Request.Context()); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		ready = false
	} else {
		checks["database"] = "healthy"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, ReadinessResponse{
		Ready:     ready,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.probeTimeout)
	defer cancel()

	session, err := h.db.Acquire(ctx)
	if err != nil {
		return err
	}
	return session.Ping(ctx)
}

// Live возвращает статус "живости" приложения.
//
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// DetailedHealth возвращает состояние менеджера соединения без I/O.
//
// @Router /health/detailed [get]
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		st := h.db.Status()
		checks["db_state"] = string(st.State)
		checks["db_attempts"] = strconv.Itoa(st.Attempts)
		if st.Driver != "" {
			checks["db_driver"] = st.Driver
		}
		if st.LastError != "" {
			checks["db_last_error"] = st.LastError
		}
		if st.State == connection.StateFailed {
			status = "unhealthy"
		}

		if st.State == connection.StateEstablished {
			if session, err := h.db.Acquire(c.Request.Context()); err == nil {
				if ps, ok := session.(poolStater); ok {
					stats := ps.Stats()
					checks["db_total_conns"] = strconv.Itoa(int(stats.TotalConns))
					checks["db_idle_conns"] = strconv.Itoa(int(stats.IdleConns))
					checks["db_acquired_conns"] = strconv.Itoa(int(stats.AcquiredConns))
				}
			}
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

// RegisterRoutes регистрирует health check маршруты.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/health/detailed", h.DetailedHealth)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
}
