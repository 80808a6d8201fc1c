package models

import (
	"time"
)

// Transaction types. The ledger is append-only; rows are never updated.
const (
	TransactionTypePhoto     = "photo"
	TransactionTypePhotoBulk = "photo-bulk"
	TransactionTypeBooking   = "booking"
	TransactionTypeDownload  = "download"
)

const TransactionStatusConfirmed = "confirmed"

type Transaction struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	ReferenceID   string    `json:"reference_id" gorm:"not null"`
	Type          string    `json:"type" gorm:"not null"`
	RelatedID     *uint     `json:"related_id,omitempty"`
	Amount        float64   `json:"amount" gorm:"not null"`
	PaymentMethod string    `json:"payment_method" gorm:"not null"`
	Status        string    `json:"status" gorm:"not null;default:'confirmed'"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionReport is the fixed shape of the staff-facing ledger view. The
// columns are static on purpose; nothing about this report is derived from
// request input.
type TransactionReport struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	ReferenceID   string    `json:"reference_id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
