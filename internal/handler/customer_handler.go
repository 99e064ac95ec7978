package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/service"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) ListCards(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	cards := h.customerService.ListCards(c.Context(), userID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"cards":   cards,
	})
}

func (h *CustomerHandler) GetCard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("Authentication required")
	}

	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid card ID")
	}

	card, err := h.customerService.GetCard(c.Context(), user, cardID)
	if err != nil {
		if err == service.ErrAccessDenied {
			return middleware.Forbidden("You do not have access to this card")
		}
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusOK).JSON(card)
}

func (h *CustomerHandler) ListRelationships(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	relationships := h.customerService.ListRelationships(c.Context(), userID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":       true,
		"relationships": relationships,
	})
}
