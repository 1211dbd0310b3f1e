package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout bounds the store ping of the readiness check
	HealthCheckTimeout = 2 * time.Second
)

// Pinger checks that the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	store     Pinger
	startTime time.Time
	env       string
	driver    string
}

// NewHealthHandler creates a new HealthHandler instance. driver names the
// configured record store and is reported by Info.
func NewHealthHandler(store Pinger, env, driver string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		startTime: time.Now(),
		env:       env,
		driver:    driver,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Store       string `json:"store"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health. It checks no dependencies and always answers
// 200, for liveness probes.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready. It answers 503 when the store does not
// respond to a ping within HealthCheckTimeout.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Database health check failed", err, logger.Fields{
				"timeout": HealthCheckTimeout.String(),
				"store":   h.driver,
			})
		}

		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:   "not_ready",
			Database: "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:   "ready",
		Database: "connected",
	})
}

// Info handles GET /api/v1/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Store:       h.driver,
		Uptime:      formatUptime(time.Since(h.startTime)),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
