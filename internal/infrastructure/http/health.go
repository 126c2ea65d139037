// Package http contains the operational HTTP surface: health and metrics
package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// HealthTimeout bounds a whole health check
const HealthTimeout = 5 * time.Second

// CheckFunc reports a component problem as a non-nil error
type CheckFunc func(ctx context.Context) error

// Check is a named component check
type Check struct {
	Name string
	Run  CheckFunc
}

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler serves GET /health
type HealthHandler struct {
	checks []Check
	now    func() time.Time
	logger zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(checks []Check, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		now:    time.Now,
		logger: logger,
	}
}

// Handle runs every check and writes the JSON report.
// Any failing component degrades the status; all failing makes it unhealthy with 503.
func (h *HealthHandler) Handle(rc *fasthttp.RequestCtx) {
	ctx, cancel := context.WithTimeout(context.Background(), HealthTimeout)
	defer cancel()

	components := h.checkComponents(ctx)
	status := determineOverallStatus(components)

	statusCode := fasthttp.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	switch status {
	case HealthStatusUnhealthy:
		logEvent = h.logger.Warn()
	case HealthStatusDegraded:
		logEvent = h.logger.Info()
	}
	logEvent.
		Str("status", string(status)).
		Int("status_code", statusCode).
		Interface("components", components).
		Msg("Health check completed")

	body, err := json.Marshal(HealthResponse{
		Status:     status,
		Timestamp:  h.now().UTC(),
		Components: components,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
		rc.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	rc.SetContentType("application/json")
	rc.SetStatusCode(statusCode)
	rc.SetBody(body)
}

func (h *HealthHandler) checkComponents(ctx context.Context) []ComponentHealth {
	components := make([]ComponentHealth, 0, len(h.checks))
	for _, c := range h.checks {
		component := ComponentHealth{Name: c.Name, Healthy: true}
		if err := c.Run(ctx); err != nil {
			component.Healthy = false
			component.Message = err.Error()
		}
		components = append(components, component)
	}
	return components
}

func determineOverallStatus(components []ComponentHealth) HealthStatus {
	allHealthy := true
	anyHealthy := false

	for _, component := range components {
		if component.Healthy {
			anyHealthy = true
		} else {
			allHealthy = false
		}
	}

	switch {
	case allHealthy:
		return HealthStatusHealthy
	case anyHealthy:
		return HealthStatusDegraded
	default:
		return HealthStatusUnhealthy
	}
}
