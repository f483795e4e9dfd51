package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/gorm"
)

// HealthHandlerInterface defines the contract for liveness checks
type HealthHandlerInterface interface {
	Health(c fiber.Ctx) error
}

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	db      *gorm.DB
	version string
}

func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Health reports whether the service can reach its database.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.APIResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := createRequestContextWithTimeout(c, "/api/v1/health", 3*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		return errorResponse(c, fiber.StatusServiceUnavailable, "Database is unreachable", "DATABASE_UNAVAILABLE", nil)
	}

	return successResponse(c, fiber.StatusOK, "Service is healthy", fiber.Map{
		"status":    "ok",
		"timestamp": utils.UTCNow().Unix(),
		"version":   h.version,
		"service":   "funnely-cron",
	})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
