package repository

import (
	"time"

	"github.com/framelight/studio-backend/internal/models"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{
		db: db,
	}
}

func (r *PhotoRepository) Create(photo *models.Photo) error {
	return r.db.Create(photo).Error
}

func (r *PhotoRepository) CreateBatch(photos []models.Photo) error {
	return r.db.Create(&photos).Error
}

func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) GetPublishedByUserID(userID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.Where("user_id = ? AND is_published = ?", userID, true).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *PhotoRepository) Delete(id uint) error {
	return r.db.Delete(&models.Photo{}, id).Error
}

func (r *PhotoRepository) DeleteBulk(ids []uint) (int64, error) {
	result := r.db.Delete(&models.Photo{}, ids)
	return result.RowsAffected, result.Error
}

// ExpireOverdue moves purchased photos past their expiry into the terminal
// expired state. Safe to run repeatedly.
func (r *PhotoRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.Photo{}).
		Where("status = ? AND expires_at < ?", models.PhotoStatusPurchased, now).
		Update("status", models.PhotoStatusExpired)
	return result.RowsAffected, result.Error
}
