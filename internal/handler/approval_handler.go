package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/repository"
	"loyalty-platform/internal/service"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) ListPending(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	approvals := h.approvalService.ListPending(c.Context(), userID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"approvals": approvals,
	})
}

func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	return h.process(c, true)
}

func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	return h.process(c, false)
}

func (h *ApprovalHandler) process(c *fiber.Ctx, approve bool) error {
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("Authentication required")
	}

	cardID, err := h.approvalService.Process(c.Context(), requestID, user, approve)
	if err != nil {
		switch err {
		case service.ErrApprovalNotFound:
			return middleware.NotFound("Approval request not found or already processed")
		case service.ErrNotRequestOwner:
			return middleware.Forbidden("This request is not addressed to you")
		case repository.ErrInsufficientBalance:
			return middleware.Conflict("Insufficient points balance")
		}
		return err
	}

	resp := fiber.Map{"success": true}
	if cardID != nil {
		resp["card_id"] = cardID
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ApprovalHandler) RequestEnrollment(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.EnrollmentRequestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	req, err := h.approvalService.RequestEnrollment(c.Context(), userID, input)
	if err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"request": req,
	})
}

func (h *ApprovalHandler) RequestPointsDeduction(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.DeductionRequestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Points <= 0 {
		return middleware.BadRequest("Points must be positive")
	}

	req, err := h.approvalService.RequestPointsDeduction(c.Context(), userID, input)
	if err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"request": req,
	})
}

func mapRequestError(err error) error {
	switch err {
	case service.ErrBusinessNotFound:
		return middleware.NotFound("No business registered for this account")
	case service.ErrProgramNotFound:
		return middleware.NotFound("Loyalty program not found")
	case service.ErrProgramInactive:
		return middleware.BadRequest("Loyalty program is not active")
	case service.ErrCustomerNotFound:
		return middleware.NotFound("Customer not found")
	case service.ErrCardNotFound:
		return middleware.NotFound("Loyalty card not found")
	case service.ErrAlreadyEnrolled:
		return middleware.Conflict("Customer already enrolled in this program")
	case service.ErrRequestInFlight:
		return middleware.Conflict("A pending request already exists")
	case repository.ErrInsufficientBalance:
		return middleware.Conflict("Insufficient points balance")
	}
	return err
}
