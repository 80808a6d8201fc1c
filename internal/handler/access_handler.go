package handler

import (
	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/internal/service"
	"github.com/framelight/studio-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AccessHandler struct {
	accessService *service.GalleryAccessService
	validator     *utils.Validator
}

func NewAccessHandler(accessService *service.GalleryAccessService, validator *utils.Validator) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
		validator:     validator,
	}
}

func (h *AccessHandler) GenerateCode(c *fiber.Ctx) error {
	var req models.GenerateAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.accessService.GenerateCode(req.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(resp, "Access code generated successfully"))
}

func (h *AccessHandler) ValidateCode(c *fiber.Ctx) error {
	code := c.Params("code")

	userID, err := h.accessService.ValidateCode(code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"user_id": userID}, ""))
}
