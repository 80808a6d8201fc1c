package handler

import (
	"errors"

	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to status codes with short reasons the
// frontend can switch on.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrNotPurchased),
		errors.Is(err, service.ErrAccessExpired),
		errors.Is(err, service.ErrNoDownloadsLeft):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrUnavailable),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidLogin):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrPaymentGateway):
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse(service.ErrPaymentGateway.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("internal server error"))
	}
}

// callerID reads the authenticated user id set by the auth middleware.
func callerID(c *fiber.Ctx) (uint, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
	}
	return userID, nil
}
