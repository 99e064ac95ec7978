package handler

import (
	"github.com/gofiber/fiber/v2"

	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.dashboardService.GetBusinessStats(c.Context(), userID)
	if err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
