package repository

import (
	"time"

	"github.com/framelight/studio-backend/internal/models"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{
		db: db,
	}
}

func (r *PurchaseRepository) Create(purchase *models.PhotoPurchase) error {
	return r.db.Create(purchase).Error
}

func (r *PurchaseRepository) CreateBatch(purchases []models.PhotoPurchase) error {
	return r.db.Create(&purchases).Error
}

func (r *PurchaseRepository) GetByUserID(userID uint) ([]models.PhotoPurchase, error) {
	var purchases []models.PhotoPurchase
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// GetLatestByPhotoAndUser returns the newest purchase row for the pair, so
// the download gate can tell "never purchased" apart from "expired".
func (r *PurchaseRepository) GetLatestByPhotoAndUser(photoID, userID uint) (*models.PhotoPurchase, error) {
	var purchase models.PhotoPurchase
	err := r.db.Where("photo_id = ? AND user_id = ?", photoID, userID).
		Order("id DESC").
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ConsumeDownload decrements the quota of an active, unexpired purchase.
// The guard runs inside the UPDATE itself so two concurrent downloads can
// never both spend the last slot.
func (r *PurchaseRepository) ConsumeDownload(purchaseID uint, now time.Time) (bool, error) {
	result := r.db.Model(&models.PhotoPurchase{}).
		Where("id = ? AND status = ? AND downloads_remaining > 0 AND expires_at > ?",
			purchaseID, models.PurchaseStatusActive, now).
		Update("downloads_remaining", gorm.Expr("downloads_remaining - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DownloadSummary aggregates remaining vs. granted downloads across the
// caller's active purchases.
func (r *PurchaseRepository) DownloadSummary(userID uint, now time.Time) (*models.DownloadSummary, error) {
	var summary models.DownloadSummary
	err := r.db.Model(&models.PhotoPurchase{}).
		Select("COALESCE(SUM(downloads_remaining), 0) AS remaining, COALESCE(SUM(downloads_total), 0) AS total").
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, models.PurchaseStatusActive, now).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// DeleteStalePending purges pending rows whose checkout was abandoned. Paid
// sessions activate long before the cutoff, so this only ever removes rows
// no webhook will claim.
func (r *PurchaseRepository) DeleteStalePending(before time.Time) (int64, error) {
	result := r.db.Where("status = ? AND created_at < ?", models.PurchaseStatusPending, before).
		Delete(&models.PhotoPurchase{})
	return result.RowsAffected, result.Error
}

func (r *PurchaseRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.PhotoPurchase{}).
		Where("status = ? AND expires_at < ?", models.PurchaseStatusActive, now).
		Update("status", models.PurchaseStatusExpired)
	return result.RowsAffected, result.Error
}
