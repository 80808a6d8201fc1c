package repository

import (
	"github.com/framelight/studio-backend/internal/models"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{
		db: db,
	}
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) UpdatePaymentStatus(id uint, status string) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}
