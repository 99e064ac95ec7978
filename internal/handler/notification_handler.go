package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/service"
)

type NotificationHandler struct {
	notifService   service.NotificationService
	programService service.ProgramService
}

func NewNotificationHandler(notifService service.NotificationService, programService service.ProgramService) *NotificationHandler {
	return &NotificationHandler{
		notifService:   notifService,
		programService: programService,
	}
}

// List serves both audiences: customers see their own feed, business users the
// feed addressed to their business.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("Authentication required")
	}

	filter := domain.NotificationFilter{
		UnreadOnly: c.Query("unread_only") == "true",
	}
	if t := c.Query("type"); t != "" {
		notifType := domain.NotificationType(t)
		filter.Type = &notifType
	}

	params := getPaginationParams(c)

	var notifications []domain.Notification
	var total int64

	if user.Role == string(domain.RoleBusiness) {
		business, err := h.programService.GetBusiness(c.Context(), user.ID)
		if err != nil {
			return middleware.NotFound("No business registered for this account")
		}
		notifications, total = h.notifService.ListForBusiness(c.Context(), business.ID, filter, params)
	} else {
		notifications, total = h.notifService.ListForCustomer(c.Context(), user.ID, filter, params)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
		"total":         total,
	})
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.GetUnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("Authentication required")
	}

	notif, err := h.notifService.GetByID(c.Context(), notifID)
	if err != nil {
		return err
	}
	if notif == nil {
		return middleware.NotFound("Notification not found")
	}
	if err := h.requireRecipient(c, user, notif); err != nil {
		return err
	}

	if err := h.notifService.MarkAsRead(c.Context(), notifID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

// requireRecipient checks the caller is the notification's addressee: the
// customer for customer-audience rows, the business owner for business ones.
func (h *NotificationHandler) requireRecipient(c *fiber.Ctx, user *domain.User, notif *domain.Notification) error {
	if notif.Audience == domain.AudienceBusiness {
		if user.IsAdmin() {
			return nil
		}
		business, err := h.programService.GetBusiness(c.Context(), user.ID)
		if err != nil || notif.BusinessID == nil || business.ID != *notif.BusinessID {
			return middleware.Forbidden("You do not have access to this notification")
		}
		return nil
	}
	if notif.CustomerID != nil && !middleware.CanAccess(user, *notif.CustomerID) {
		return middleware.Forbidden("You do not have access to this notification")
	}
	return nil
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAllAsRead(c.Context(), userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *NotificationHandler) ClearAll(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.notifService.ClearAll(c.Context(), userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
