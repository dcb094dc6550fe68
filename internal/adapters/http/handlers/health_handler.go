package handlers

import (
	"context"
	"time"

	"arogya-records/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg   *config.Config
	db    Pinger
	redis *redis.Client
}

// NewHealthHandler creates a new health handler. rdb may be nil.
func NewHealthHandler(cfg *config.Config, db Pinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: db, redis: rdb}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Arogya Records API v1.0 is running",
		"mode":    h.cfg.AppMode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, database and (when configured) redis health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := fiber.Map{"api": "healthy"}

	checks["database"] = "healthy"
	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unhealthy"
		status = "degraded"
	}

	if h.redis != nil {
		checks["redis"] = "healthy"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unhealthy"
			status = "degraded"
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Arogya Records API v1.0",
		"version": "1.0.0",
	})
}
