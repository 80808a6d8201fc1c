package models

import (
	"time"
)

// PhotoPurchase lifecycle. Rows are created pending at checkout time and only
// a confirmed gateway event activates them. Quota exhaustion does not expire
// a purchase; only the expiry sweep does.
const (
	PurchaseStatusPending = "pending"
	PurchaseStatusActive  = "active"
	PurchaseStatusExpired = "expired"
)

type PhotoPurchase struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	PhotoID            uint       `json:"photo_id" gorm:"not null;index"`
	UserID             uint       `json:"user_id" gorm:"not null;index"`
	Price              float64    `json:"price" gorm:"not null"`
	Status             string     `json:"status" gorm:"not null;default:'pending'"`
	CheckoutSessionID  string     `json:"checkout_session_id" gorm:"index"`
	DownloadsRemaining int        `json:"downloads_remaining" gorm:"not null;default:0"`
	DownloadsTotal     int        `json:"downloads_total" gorm:"not null;default:0"`
	PurchaseDate       *time.Time `json:"purchase_date,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type PhotoCheckoutRequest struct {
	PhotoID uint   `json:"photo_id" validate:"required"`
	Method  string `json:"method" validate:"required,payment_method"`
}

type BulkCheckoutRequest struct {
	PhotoIDs         []uint `json:"photo_ids" validate:"required,min=1"`
	Method           string `json:"method" validate:"required,payment_method"`
	PackageDownloads int    `json:"package_downloads"`
}

type BookingCheckoutRequest struct {
	BookingID uint    `json:"booking_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required,payment_method"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

type DownloadSummary struct {
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}
