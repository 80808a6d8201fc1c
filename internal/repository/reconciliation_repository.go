package repository

import (
	"time"

	"github.com/framelight/studio-backend/internal/models"
	"gorm.io/gorm"
)

// ReconciliationRepository applies the paid-session unit of work: activate
// the session's pending purchases, mark their photos purchased and append
// the confirming ledger row, all inside one database transaction. A failure
// anywhere rolls the session back to pending, so a gateway retry redoes the
// whole unit instead of finding a half-applied one.
type ReconciliationRepository struct {
	db *gorm.DB
}

func NewReconciliationRepository(db *gorm.DB) *ReconciliationRepository {
	return &ReconciliationRepository{
		db: db,
	}
}

// ActivateSession returns how many purchases were activated. Zero means the
// session was already processed or is unknown; the caller acknowledges those.
// The record callback builds the confirming Transaction from the activated
// rows. Download allowances are left at whatever checkout recorded.
func (r *ReconciliationRepository) ActivateSession(sessionID string, purchaseDate, expiresAt time.Time, record func(activated []models.PhotoPurchase) *models.Transaction) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PhotoPurchase{}).
			Where("checkout_session_id = ? AND status = ?", sessionID, models.PurchaseStatusPending).
			Updates(map[string]interface{}{
				"status":        models.PurchaseStatusActive,
				"purchase_date": purchaseDate,
				"expires_at":    expiresAt,
			})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}

		var activated []models.PhotoPurchase
		if err := tx.Where("checkout_session_id = ? AND status = ?", sessionID, models.PurchaseStatusActive).
			Find(&activated).Error; err != nil {
			return err
		}

		photoIDs := make([]uint, 0, len(activated))
		for _, p := range activated {
			photoIDs = append(photoIDs, p.PhotoID)
		}
		if err := tx.Model(&models.Photo{}).
			Where("id IN ?", photoIDs).
			Updates(map[string]interface{}{
				"status":       models.PhotoStatusPurchased,
				"purchased_at": purchaseDate,
				"expires_at":   expiresAt,
			}).Error; err != nil {
			return err
		}

		return tx.Create(record(activated)).Error
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
