package service

import (
	"github.com/framelight/studio-backend/internal/models"
)

// TransactionService exposes the append-only ledger as read views.
type TransactionService struct {
	txRepo TransactionRepository
}

func NewTransactionService(txRepo TransactionRepository) *TransactionService {
	return &TransactionService{
		txRepo: txRepo,
	}
}

func (s *TransactionService) GetUserTransactions(userID uint) ([]models.Transaction, error) {
	return s.txRepo.GetByUserID(userID)
}

// GetReport returns the staff-facing ledger with its fixed column set.
func (s *TransactionService) GetReport() ([]models.TransactionReport, error) {
	return s.txRepo.GetAll()
}
