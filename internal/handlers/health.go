package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "domaingen-api"
	serviceVersion = "0.1.0"
)

// ModelChecker reports whether the model backend is reachable
type ModelChecker interface {
	Name() string
	Backend() string
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	model ModelChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(model ModelChecker) *HealthHandler {
	return &HealthHandler{model: model}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Health returns basic health status
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	})
}

// DeepHealth returns health status with a model backend check
// @Summary Readiness check including the model backend
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/deep [get]
func (h *HealthHandler) DeepHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deps := make(map[string]string)
	allHealthy := true

	if h.model != nil {
		key := "model:" + h.model.Backend() + "/" + h.model.Name()
		if err := h.model.Ping(ctx); err != nil {
			deps[key] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			deps[key] = "healthy"
		}
	} else {
		deps["model"] = "not configured"
		allHealthy = false
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:       status,
		Service:      serviceName,
		Version:      serviceVersion,
		Dependencies: deps,
	})
}
