package handler

import (
	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	txService *service.TransactionService
}

func NewTransactionHandler(txService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
	}
}

func (h *TransactionHandler) GetMyTransactions(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	txs, err := h.txService.GetUserTransactions(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(txs, ""))
}

func (h *TransactionHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.txService.GetReport()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(report, ""))
}
