package repository

import (
	"github.com/framelight/studio-backend/internal/models"
	"gorm.io/gorm"
)

type GalleryAccessRepository struct {
	db *gorm.DB
}

func NewGalleryAccessRepository(db *gorm.DB) *GalleryAccessRepository {
	return &GalleryAccessRepository{
		db: db,
	}
}

func (r *GalleryAccessRepository) Create(code *models.GalleryAccessCode) error {
	return r.db.Create(code).Error
}

func (r *GalleryAccessRepository) GetByCode(code string) (*models.GalleryAccessCode, error) {
	var access models.GalleryAccessCode
	err := r.db.Where("code = ?", code).First(&access).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}
