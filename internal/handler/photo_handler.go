package handler

import (
	"fmt"
	"strconv"

	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type PhotoHandler struct {
	photoService *service.PhotoService
}

func NewPhotoHandler(photoService *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// UploadPhotos accepts a multipart form with a "photos" file field (repeated),
// a "user_id" customer field and optional "price" / "booking_id" fields.
func (h *PhotoHandler) UploadPhotos(c *fiber.Ctx) error {
	staffID, err := callerID(c)
	if err != nil {
		return err
	}

	customerID64, err := strconv.ParseUint(c.FormValue("user_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing or invalid user_id"))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid multipart form"))
	}
	files := form.File["photos"]

	price, _ := strconv.ParseFloat(c.FormValue("price"), 64)

	var bookingID *uint
	if raw := c.FormValue("booking_id"); raw != "" {
		id64, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid booking_id"))
		}
		id := uint(id64)
		bookingID = &id
	}

	count, err := h.photoService.UploadPhotos(uint(customerID64), staffID, files, price, bookingID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, fmt.Sprintf("%d photo(s) uploaded successfully!", count)))
}

func (h *PhotoHandler) GetGallery(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	items, err := h.photoService.GetGallery(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(items, ""))
}

// GetCustomerGallery lets staff view any customer's gallery.
func (h *PhotoHandler) GetCustomerGallery(c *fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid user ID"))
	}

	items, err := h.photoService.GetGallery(uint(customerID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(items, ""))
}

func (h *PhotoHandler) DownloadPhoto(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	photoID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid photo ID"))
	}

	result, err := h.photoService.Download(uint(photoID), userID)
	if err != nil {
		return respondError(c, err)
	}
	defer result.File.Close()

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, result.FileName))
	if result.FramedPath != "" {
		c.Set("X-Framed-Variant", "/"+result.FramedPath)
	}
	return c.SendStream(result.File)
}

func (h *PhotoHandler) GetDownloadSummary(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	summary, err := h.photoService.GetDownloadSummary(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(summary, ""))
}

func (h *PhotoHandler) DeletePhoto(c *fiber.Ctx) error {
	photoID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid photo ID"))
	}

	if err := h.photoService.DeletePhoto(uint(photoID)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Photo deleted successfully."))
}

func (h *PhotoHandler) DeletePhotosBulk(c *fiber.Ctx) error {
	var req models.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if len(req.PhotoIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("No photos selected for deletion."))
	}

	deleted, err := h.photoService.DeletePhotosBulk(req.PhotoIDs)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, fmt.Sprintf("Deleted %d photo(s) successfully.", deleted)))
}
