package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/service"
)

type PointsHandler struct {
	pointsService service.PointsService
}

func NewPointsHandler(pointsService service.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

func (h *PointsHandler) Award(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.AwardPointsInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.CardNumber == "" {
		return middleware.BadRequest("Card number is required")
	}
	if input.Points <= 0 {
		return middleware.BadRequest("Points must be positive")
	}

	transaction, err := h.pointsService.AwardPoints(c.Context(), userID, input)
	if err != nil {
		switch err {
		case service.ErrCardInactive:
			return middleware.Conflict("Loyalty card is not active")
		case service.ErrEnrollmentInactive:
			return middleware.Conflict("Customer is not actively enrolled")
		}
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"transaction": transaction,
	})
}

func (h *PointsHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	params := getPaginationParams(c)

	transactions, total, err := h.pointsService.HistoryForCustomer(c.Context(), userID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(domain.NewPaginatedResponse(transactions, params.Page, params.PageSize, total))
}

func (h *PointsHandler) CardHistory(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("Authentication required")
	}

	cardID, err := uuid.Parse(c.Params("cardId"))
	if err != nil {
		return middleware.BadRequest("Invalid card ID")
	}

	params := getPaginationParams(c)

	transactions, total, err := h.pointsService.HistoryForCard(c.Context(), user, cardID, params)
	if err != nil {
		if err == service.ErrAccessDenied {
			return middleware.Forbidden("You do not have access to this card")
		}
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusOK).JSON(domain.NewPaginatedResponse(transactions, params.Page, params.PageSize, total))
}
