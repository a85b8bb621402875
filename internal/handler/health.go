package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/roombook/internal/infrastructure/redis"
	"github.com/yourorg/roombook/pkg/database"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	pool        *database.ConnectionPool
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pool *database.ConnectionPool, redisClient *redis.Client, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthHandler{
		pool:        pool,
		redisClient: redisClient,
		logger:      logger,
	}
}

// HealthResponse represents the health status response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz - simple liveness check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready handles GET /readyz - returns 200 only if Postgres and Redis answer
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	ready := true

	if err := h.pool.Health(ctx); err != nil {
		h.logger.Warn("postgres readiness check failed", slog.String("error", err.Error()))
		checks["postgres"] = "unavailable"
		ready = false
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		h.logger.Warn("redis readiness check failed", slog.String("error", err.Error()))
		checks["redis"] = "unavailable"
		ready = false
	}

	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not ready", Checks: checks})
		return
	}
	writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Checks: checks})
}
