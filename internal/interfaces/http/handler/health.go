package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a handler that checks every named dependency on /health/ready
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// HealthResponse is the body of both probes
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Live handles GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	h.Success(c, HealthResponse{Status: "ok"})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			resp.Status = "unavailable"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	if resp.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    resp,
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeServiceUnavailable, Message: "Dependencies unavailable"},
		})
		return
	}
	h.Success(c, resp)
}
