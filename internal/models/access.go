package models

import (
	"time"
)

// GalleryAccessCode lets a customer open their gallery from a QR card handed
// over after a shoot.
type GalleryAccessCode struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Code      string    `json:"code" gorm:"unique;not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type GenerateAccessRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

type AccessCodeResponse struct {
	UserID  uint   `json:"user_id"`
	Code    string `json:"code"`
	QRURL   string `json:"qr_url"`
	QRImage string `json:"qr_image"` // base64 PNG
}
