package service

import (
	"context"
	"time"

	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/pkg/payment"
)

// Repository interfaces the services depend on. Concrete GORM implementations
// live in internal/repository; tests substitute in-memory fakes.

type PhotoRepository interface {
	Create(photo *models.Photo) error
	CreateBatch(photos []models.Photo) error
	GetByID(id uint) (*models.Photo, error)
	GetPublishedByUserID(userID uint) ([]models.Photo, error)
	Delete(id uint) error
	DeleteBulk(ids []uint) (int64, error)
	ExpireOverdue(now time.Time) (int64, error)
}

type PurchaseRepository interface {
	Create(purchase *models.PhotoPurchase) error
	CreateBatch(purchases []models.PhotoPurchase) error
	GetByUserID(userID uint) ([]models.PhotoPurchase, error)
	GetLatestByPhotoAndUser(photoID, userID uint) (*models.PhotoPurchase, error)
	ConsumeDownload(purchaseID uint, now time.Time) (bool, error)
	DownloadSummary(userID uint, now time.Time) (*models.DownloadSummary, error)
	ExpireOverdue(now time.Time) (int64, error)
	DeleteStalePending(before time.Time) (int64, error)
}

type TransactionRepository interface {
	Create(tx *models.Transaction) error
	GetByUserID(userID uint) ([]models.Transaction, error)
	GetAll() ([]models.TransactionReport, error)
	SumBookingPayments(bookingID uint) (float64, error)
	ExistsByReference(referenceID string, txType string) (bool, error)
}

// ReconciliationRepository runs the paid-session unit of work in a single
// database transaction: activation, photo marking and the confirming ledger
// row commit or roll back together.
type ReconciliationRepository interface {
	ActivateSession(sessionID string, purchaseDate, expiresAt time.Time, record func(activated []models.PhotoPurchase) *models.Transaction) (int64, error)
}

type BookingRepository interface {
	GetByID(id uint) (*models.Booking, error)
	UpdatePaymentStatus(id uint, status string) error
}

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	GetCustomers() ([]models.User, error)
}

type GalleryAccessRepository interface {
	Create(code *models.GalleryAccessCode) error
	GetByCode(code string) (*models.GalleryAccessCode, error)
}

// CheckoutGateway is the slice of the payment gateway the orchestrator uses.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error)
}
