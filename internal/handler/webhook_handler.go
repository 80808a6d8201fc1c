package handler

import (
	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/internal/service"
	"github.com/framelight/studio-backend/pkg/payment"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookHandler terminates gateway deliveries. The gateway is the caller
// here, so failures are logged rather than explained in the response.
type WebhookHandler struct {
	webhookService *service.WebhookService
	webhookSecret  string
	liveMode       bool
	logger         *zap.Logger
}

func NewWebhookHandler(webhookService *service.WebhookService, webhookSecret string, liveMode bool, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		webhookSecret:  webhookSecret,
		liveMode:       liveMode,
		logger:         logger,
	}
}

func (h *WebhookHandler) HandlePaymentWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	// Signature verification runs only when a webhook secret is configured;
	// local gateway CLIs deliver unsigned events.
	if h.webhookSecret != "" {
		header := c.Get("Paymongo-Signature")
		if err := payment.VerifySignature(payload, header, h.webhookSecret, h.liveMode); err != nil {
			h.logger.Warn("webhook signature rejected", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid signature"))
		}
	}

	event, err := payment.ParseWebhookEvent(payload)
	if err != nil {
		h.logger.Warn("malformed webhook payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("malformed payload"))
	}

	if err := h.webhookService.HandleEvent(event); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("session_id", event.SessionID()),
			zap.Error(err))
		// 500 makes the gateway retry the delivery.
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}
