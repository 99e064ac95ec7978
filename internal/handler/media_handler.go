package handler

import (
	"github.com/gofiber/fiber/v2"

	"loyalty-platform/internal/middleware"
	"loyalty-platform/internal/service"
)

const maxLogoSize = 5 * 1024 * 1024

type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) UploadLogo(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("A file upload is required")
	}
	if fileHeader.Size > maxLogoSize {
		return middleware.BadRequest("Logo must be 5MB or smaller")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.BadRequest("Unable to read uploaded file")
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")

	business, err := h.mediaService.UploadLogo(c.Context(), userID, fileHeader.Filename, fileHeader.Size, mimeType, file)
	if err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(business)
}

func (h *MediaHandler) DeleteLogo(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.mediaService.DeleteLogo(c.Context(), userID); err != nil {
		return mapRequestError(err)
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
