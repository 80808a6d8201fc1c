package handler

import (
	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/internal/service"
	"github.com/framelight/studio-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	validator       *utils.Validator
}

func NewCheckoutHandler(checkoutService *service.CheckoutService, validator *utils.Validator) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator,
	}
}

func (h *CheckoutHandler) CreatePhotoCheckout(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req models.PhotoCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	checkout, err := h.checkoutService.CreatePhotoCheckout(c.Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(checkout, ""))
}

func (h *CheckoutHandler) CreateBulkCheckout(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req models.BulkCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	checkout, err := h.checkoutService.CreateBulkCheckout(c.Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(checkout, ""))
}

func (h *CheckoutHandler) CreateBookingCheckout(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req models.BookingCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	checkout, err := h.checkoutService.CreateBookingCheckout(c.Context(), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(checkout, ""))
}
