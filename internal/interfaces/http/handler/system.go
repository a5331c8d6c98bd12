package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// HealthCheck checks one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler serves the health endpoint
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
	timeout   time.Duration
}

// NewSystemHandler creates a new SystemHandler. checks are keyed by
// dependency name ("database", "redis").
func NewSystemHandler(name, version string, checks map[string]HealthCheck) *SystemHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		timeout:   2 * time.Second,
	}
}

// Routes registers GET /health. It is mounted both at the root and under
// the API prefix.
func (h *SystemHandler) Routes() *router.DomainGroup {
	group := router.NewDomainGroup("health", "")
	group.GET("/health", h.Health)
	return group
}

// HealthResponse reports the service and each dependency
type HealthResponse struct {
	Status       string            `json:"status"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	GoVersion    string            `json:"go_version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health answers 200 when every dependency responds and 503 otherwise
// @Summary      Service health
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:       "ok",
		Name:         h.name,
		Version:      h.version,
		GoVersion:    runtime.Version(),
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Dependencies: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Dependencies[name] = "unavailable: " + err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
