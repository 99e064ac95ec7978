package handler

import (
	"github.com/gofiber/fiber/v2"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/service"
)

type PromotionHandler struct {
	promotionService service.PromotionService
}

func NewPromotionHandler(promotionService service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreatePromotionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" || input.PromoCode == "" {
		return middleware.BadRequest("Title and promo code are required")
	}

	promo, err := h.promotionService.Create(c.Context(), userID, input)
	if err != nil {
		if err == service.ErrPromotionWindow {
			return middleware.BadRequest("Promotion must end after it starts")
		}
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(promo)
}

// List returns the business's own promotions for business users and the
// current promotions of enrolled businesses for customers.
func (h *PromotionHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("Authentication required")
	}

	params := getPaginationParams(c)

	if user.Role == string(domain.RoleBusiness) {
		promos, total, err := h.promotionService.ListForBusiness(c.Context(), user.ID, params)
		if err != nil {
			return mapRequestError(err)
		}
		return c.Status(fiber.StatusOK).JSON(domain.NewPaginatedResponse(promos, params.Page, params.PageSize, total))
	}

	promos, total := h.promotionService.ListForCustomer(c.Context(), user.ID, params)
	return c.Status(fiber.StatusOK).JSON(domain.NewPaginatedResponse(promos, params.Page, params.PageSize, total))
}
