package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/service"
)

type ProgramHandler struct {
	programService service.ProgramService
	mediaService   service.MediaService
}

func NewProgramHandler(programService service.ProgramService, mediaService service.MediaService) *ProgramHandler {
	return &ProgramHandler{
		programService: programService,
		mediaService:   mediaService,
	}
}

func (h *ProgramHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateProgramInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Name == "" {
		return middleware.BadRequest("Program name is required")
	}

	program, err := h.programService.Create(c.Context(), userID, input)
	if err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(program)
}

func (h *ProgramHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	programID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid program ID")
	}

	var input domain.UpdateProgramInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	program, err := h.programService.Update(c.Context(), userID, programID, input)
	if err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusOK).JSON(program)
}

func (h *ProgramHandler) GetByID(c *fiber.Ctx) error {
	programID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid program ID")
	}

	program, err := h.programService.GetByID(c.Context(), programID)
	if err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusOK).JSON(program)
}

func (h *ProgramHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	params := getPaginationParams(c)

	programs, total, err := h.programService.ListForBusiness(c.Context(), userID, params)
	if err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusOK).JSON(domain.NewPaginatedResponse(programs, params.Page, params.PageSize, total))
}

func (h *ProgramHandler) GetBusiness(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	business, err := h.programService.GetBusiness(c.Context(), userID)
	if err != nil {
		return mapRequestError(err)
	}
	business.LogoURL = h.mediaService.LogoURL(business)

	return c.Status(fiber.StatusOK).JSON(business)
}

func (h *ProgramHandler) UpdateBusiness(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.UpdateBusinessInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	business, err := h.programService.UpdateBusiness(c.Context(), userID, input)
	if err != nil {
		return mapRequestError(err)
	}
	business.LogoURL = h.mediaService.LogoURL(business)

	return c.Status(fiber.StatusOK).JSON(business)
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
