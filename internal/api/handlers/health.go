package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wonny/quantdiag/internal/api/response"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
)

// DBHealth 데이터베이스 상태 조회 (postgres.Pool)
type DBHealth interface {
	Health(ctx context.Context) *postgres.HealthStatus
}

// Check 부가 의존성 점검 (redis ping, 외부 API 등)
type Check func(ctx context.Context) error

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        DBHealth
	cache     cache.Store
	checks    map[string]Check
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db DBHealth, store cache.Store, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     store,
		checks:    make(map[string]Check),
		startTime: time.Now(),
		version:   version,
	}
}

// AddCheck readiness/상세 점검 항목 추가
func (h *HealthHandler) AddCheck(name string, check Check) {
	h.checks[name] = check
}

// SimpleHealthResponse represents a simple health check response
type SimpleHealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents a readiness check response
type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Message   string            `json:"message,omitempty"`
}

// DetailedHealthResponse represents detailed health information
type DetailedHealthResponse struct {
	Status        string                     `json:"status"`
	Version       string                     `json:"version"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Timestamp     time.Time                  `json:"timestamp"`
	Components    map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health status of a component
type ComponentHealth struct {
	Status       string         `json:"status"`
	ResponseTime string         `json:"response_time,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// Health returns simple liveness check
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, SimpleHealthResponse{
		Status:    postgres.StatusHealthy,
		Timestamp: time.Now(),
	})
}

// Ready returns readiness check with dependency checks
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := make(map[string]string)
	message := ""

	if db := h.db.Health(ctx); db.Status == postgres.StatusUnhealthy {
		checks["database"] = "error"
		message = "Database connection failed"
	} else {
		checks["database"] = "ok"
	}

	for _, name := range h.checkNames() {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = "error"
			if message == "" {
				message = name + " check failed"
			}
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if message != "" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, ReadyResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
		Message:   message,
	})
}

// Detailed returns detailed system health information
// GET /api/health/detailed
func (h *HealthHandler) Detailed(c *gin.Context) {
	ctx := c.Request.Context()
	components := make(map[string]ComponentHealth)

	db := h.db.Health(ctx)
	components["database"] = ComponentHealth{
		Status:       db.Status,
		ResponseTime: db.ResponseTime,
		Message:      db.Error,
		Details: map[string]any{
			"active_conns": db.ActiveConns,
			"idle_conns":   db.IdleConns,
			"total_conns":  db.TotalConns,
			"max_conns":    db.MaxConns,
		},
	}
	overall := db.Status

	if h.cache != nil {
		stats := h.cache.Stats()
		components["cache"] = ComponentHealth{
			Status: postgres.StatusHealthy,
			Details: map[string]any{
				"backend":  stats.Backend,
				"size":     stats.Size,
				"hit_rate": stats.HitRate,
			},
		}
	}

	for _, name := range h.checkNames() {
		start := time.Now()
		comp := ComponentHealth{Status: postgres.StatusHealthy}
		if err := h.checks[name](ctx); err != nil {
			comp.Status = postgres.StatusUnhealthy
			comp.Message = err.Error()
			if overall == postgres.StatusHealthy {
				overall = postgres.StatusDegraded
			}
		}
		comp.ResponseTime = time.Since(start).String()
		components[name] = comp
	}

	response.Success(c, DetailedHealthResponse{
		Status:        overall,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now(),
		Components:    components,
	})
}

// CacheStats 지표 캐시 통계
// GET /api/v1/cache/stats
func (h *HealthHandler) CacheStats(c *gin.Context) {
	if h.cache == nil {
		response.NotFound(c, "cache disabled")
		return
	}
	response.Success(c, h.cache.Stats())
}

func (h *HealthHandler) checkNames() []string {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
