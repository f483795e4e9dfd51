package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/mh853/Funnely-sub001/app/dto"
	businessflow "github.com/mh853/Funnely-sub001/business_flow"
)

// CronHandlerInterface defines the contract for cron trigger handlers
type CronHandlerInterface interface {
	DailyTasks(c fiber.Ctx) error
}

// CronHandler triggers the daily task orchestrator
type CronHandler struct {
	flow    businessflow.DailyTaskFlow
	timeout time.Duration
	logger  *log.Logger
}

func NewCronHandler(flow businessflow.DailyTaskFlow, timeout time.Duration, logger *log.Logger) *CronHandler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CronHandler{
		flow:    flow,
		timeout: timeout,
		logger:  logger,
	}
}

// DailyTasks runs every daily job and returns the per-task report.
// @Summary Run daily tasks
// @Description Runs the daily batch jobs in order and reports each job's outcome. Requires the cron bearer secret.
// @Tags Cron
// @Produce json
// @Security CronBearer
// @Success 200 {object} dto.DailyTaskReport "Report"
// @Failure 401 {object} dto.CronErrorResponse "Unauthorized"
// @Failure 409 {object} dto.CronErrorResponse "A run is already in progress"
// @Failure 500 {object} dto.CronErrorResponse "Internal server error"
// @Router /api/cron/daily-tasks [get]
func (h *CronHandler) DailyTasks(c fiber.Ctx) error {
	ctx, cancel := createRequestContextWithTimeout(c, "/api/cron/daily-tasks", h.timeout)
	defer cancel()

	report, err := h.flow.Run(ctx)
	if err != nil {
		if businessflow.IsDailyTasksAlreadyRunning(err) {
			return c.Status(fiber.StatusConflict).JSON(dto.CronErrorResponse{
				Error:   "Conflict",
				Message: err.Error(),
			})
		}

		h.logger.Printf("daily tasks: run aborted: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.CronErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
