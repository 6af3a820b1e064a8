package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/usercheck/internal/middleware"
	"github.com/deppfellow/usercheck/internal/server"
	"github.com/labstack/echo/v4"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint used by load balancers and monitors.
type HealthHandler struct {
	Handler
	cache Pinger
}

// NewHealthHandler constructs a HealthHandler. cache is nil when no Redis is configured.
func NewHealthHandler(s *server.Server, cache Pinger) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		cache:   cache,
	}
}

// CheckHealth returns the service status and dependency checks.
//
// The user cache is optional, so an unreachable Redis is reported in the
// checks but still answers 200: lookups keep working against upstream.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]any{}
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
		defer cancel()

		redisStart := time.Now()
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = map[string]any{
				"status":        "unhealthy",
				"response_time": time.Since(redisStart).String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(redisStart)).
				Msg("redis health check failed")
		} else {
			checks["redis"] = map[string]any{
				"status":        "healthy",
				"response_time": time.Since(redisStart).String(),
			}
		}
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
