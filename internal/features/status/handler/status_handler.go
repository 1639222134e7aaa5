package handler

import (
	"order-sweeper/internal/features/status/service"
	sweepdomain "order-sweeper/internal/features/sweep/domain"

	"github.com/gofiber/fiber/v2"
)

// StatusHandler handles HTTP requests for batch status.
type StatusHandler struct {
	statusService *service.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statusService *service.StatusService) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// Healthz reports process liveness.
func (h *StatusHandler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetProgress returns the live checkpoint, 404 when no batch is in progress.
func (h *StatusHandler) GetProgress(c *fiber.Ctx) error {
	ctx := c.Context()

	progress, err := h.statusService.Progress(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	if progress == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "no batch in progress",
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(progress)
}

// GetResults returns the accumulated results.
func (h *StatusHandler) GetResults(c *fiber.Ctx) error {
	ctx := c.Context()

	results, err := h.statusService.Results(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}
	if results == nil {
		results = make([]sweepdomain.OrderResult, 0)
	}

	return c.JSON(results)
}

// GetSummary returns headline counts over the current results.
func (h *StatusHandler) GetSummary(c *fiber.Ctx) error {
	ctx := c.Context()

	summary, err := h.statusService.Summary(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(summary)
}
