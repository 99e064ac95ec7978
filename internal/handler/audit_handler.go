package handler

import (
	"github.com/gofiber/fiber/v2"

	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/service"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) GetRecentActivities(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)

	activities, err := h.auditService.GetRecentActivities(c.Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"activities": activities,
	})
}
