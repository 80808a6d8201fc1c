package models

import (
	"time"
)

// Booking payment states driven by cumulative confirmed transactions.
const (
	BookingPaymentUnpaid  = "unpaid"
	BookingPaymentPartial = "partial"
	BookingPaymentPaid    = "paid"
)

// Booking carries only the fields the entitlement pipeline reads; the booking
// CRUD itself lives in the main business backend.
type Booking struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	ServicePrice  float64   `json:"service_price" gorm:"not null"`
	PaymentStatus string    `json:"payment_status" gorm:"not null;default:'unpaid'"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
