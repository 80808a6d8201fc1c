package models

import (
	"time"
)

// Photo lifecycle. Expired is terminal; rows only move forward.
const (
	PhotoStatusAvailable = "available"
	PhotoStatusPurchased = "purchased"
	PhotoStatusExpired   = "expired"
)

type Photo struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	UploadedBy  uint       `json:"uploaded_by" gorm:"not null"`
	BookingID   *uint      `json:"booking_id,omitempty"`
	FileName    string     `json:"file_name" gorm:"not null"`
	FilePath    string     `json:"file_path" gorm:"not null"`
	Price       float64    `json:"price" gorm:"not null"`
	Status      string     `json:"status" gorm:"not null;default:'available'"`
	IsPublished bool       `json:"is_published" gorm:"default:true"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type BulkDeleteRequest struct {
	PhotoIDs []uint `json:"photo_ids" validate:"required,min=1"`
}

// GalleryItem is what a customer sees before and after purchase. The preview
// path always points at the watermarked derivative, never the original.
type GalleryItem struct {
	ID                 uint       `json:"id"`
	FileName           string     `json:"file_name"`
	PreviewPath        string     `json:"preview_path"`
	Price              float64    `json:"price"`
	Status             string     `json:"status"`
	PurchaseStatus     string     `json:"purchase_status,omitempty"`
	DownloadsRemaining int        `json:"downloads_remaining"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}
