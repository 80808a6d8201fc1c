package repository

import (
	"github.com/framelight/studio-backend/internal/models"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{
		db: db,
	}
}

// Create appends a ledger row. Transactions are never updated or deleted.
func (r *TransactionRepository) Create(tx *models.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *TransactionRepository) GetByUserID(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) GetAll() ([]models.TransactionReport, error) {
	var report []models.TransactionReport
	err := r.db.Model(&models.Transaction{}).
		Order("created_at DESC").
		Find(&report).Error
	return report, err
}

// SumBookingPayments totals the confirmed booking payments recorded for one
// booking, used to decide paid vs. partial.
func (r *TransactionRepository) SumBookingPayments(bookingID uint) (float64, error) {
	var total float64
	err := r.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ? AND related_id = ? AND status = ?",
			models.TransactionTypeBooking, bookingID, models.TransactionStatusConfirmed).
		Scan(&total).Error
	return total, err
}

// ExistsByReference reports whether a gateway payment reference was already
// recorded, the second idempotency guard behind the conditional activation.
func (r *TransactionRepository) ExistsByReference(referenceID string, txType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("reference_id = ? AND type = ?", referenceID, txType).
		Count(&count).Error
	return count > 0, err
}
