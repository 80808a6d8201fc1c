package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/framelight/studio-backend/internal/config"
	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	currencyPHP      = "PHP"
	maxBulkAllowance = 50
)

// CheckoutService builds gateway checkout sessions and records pending
// entitlements. Pending rows are only written after the gateway confirms
// session creation, so a failed gateway call leaves nothing behind.
type CheckoutService struct {
	gateway      CheckoutGateway
	photoRepo    PhotoRepository
	purchaseRepo PurchaseRepository
	bookingRepo  BookingRepository
	cfg          *config.Config
	logger       *zap.Logger
}

func NewCheckoutService(gateway CheckoutGateway, photoRepo PhotoRepository, purchaseRepo PurchaseRepository, bookingRepo BookingRepository, cfg *config.Config, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		gateway:      gateway,
		photoRepo:    photoRepo,
		purchaseRepo: purchaseRepo,
		bookingRepo:  bookingRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *CheckoutService) CreatePhotoCheckout(ctx context.Context, userID uint, req models.PhotoCheckoutRequest) (*models.CheckoutResponse, error) {
	photo, err := s.photoRepo.GetByID(req.PhotoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: photo %d", ErrNotFound, req.PhotoID)
		}
		return nil, err
	}

	if photo.UserID != userID {
		return nil, fmt.Errorf("%w: photo belongs to another customer", ErrForbidden)
	}
	if photo.Status != models.PhotoStatusAvailable {
		return nil, fmt.Errorf("%w: photo %d is %s", ErrUnavailable, photo.ID, photo.Status)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		Description:        fmt.Sprintf("Photo #%d", photo.ID),
		PaymentMethodTypes: []string{req.Method},
		LineItems: []payment.LineItem{
			{
				Name:     fmt.Sprintf("Photo #%d", photo.ID),
				Amount:   toCentavos(photo.Price),
				Currency: currencyPHP,
				Quantity: 1,
			},
		},
		SuccessURL: s.cfg.PayMongo.SuccessURL,
		CancelURL:  s.cfg.PayMongo.CancelURL,
		Metadata: map[string]string{
			"user_id":  fmt.Sprintf("%d", userID),
			"photo_id": fmt.Sprintf("%d", photo.ID),
		},
	})
	if err != nil {
		s.logger.Error("checkout session creation failed",
			zap.Uint("photo_id", photo.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	purchase := &models.PhotoPurchase{
		PhotoID:            photo.ID,
		UserID:             userID,
		Price:              photo.Price,
		Status:             models.PurchaseStatusPending,
		CheckoutSessionID:  session.ID,
		DownloadsRemaining: s.cfg.DownloadAllowance,
		DownloadsTotal:     s.cfg.DownloadAllowance,
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}

	s.logger.Info("photo checkout created",
		zap.Uint("photo_id", photo.ID),
		zap.Uint("user_id", userID),
		zap.String("session_id", session.ID))

	return &models.CheckoutResponse{
		CheckoutURL: session.CheckoutURL,
		SessionID:   session.ID,
	}, nil
}

func (s *CheckoutService) CreateBulkCheckout(ctx context.Context, userID uint, req models.BulkCheckoutRequest) (*models.CheckoutResponse, error) {
	allowance := s.cfg.DownloadAllowance
	if req.PackageDownloads > 0 {
		allowance = int(math.Min(float64(req.PackageDownloads), maxBulkAllowance))
	}

	lineItems := make([]payment.LineItem, 0, len(req.PhotoIDs))
	photos := make([]*models.Photo, 0, len(req.PhotoIDs))
	for _, id := range req.PhotoIDs {
		photo, err := s.photoRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: photo %d", ErrNotFound, id)
			}
			return nil, err
		}
		if photo.UserID != userID {
			return nil, fmt.Errorf("%w: photo %d belongs to another customer", ErrForbidden, id)
		}
		if photo.Status != models.PhotoStatusAvailable {
			return nil, fmt.Errorf("%w: photo %d is %s", ErrUnavailable, id, photo.Status)
		}

		photos = append(photos, photo)
		lineItems = append(lineItems, payment.LineItem{
			Name:     fmt.Sprintf("Photo #%d", id),
			Amount:   toCentavos(photo.Price),
			Currency: currencyPHP,
			Quantity: 1,
		})
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		Description:        fmt.Sprintf("Bulk purchase for user #%d", userID),
		PaymentMethodTypes: []string{req.Method},
		LineItems:          lineItems,
		SuccessURL:         s.cfg.PayMongo.SuccessURL,
		CancelURL:          s.cfg.PayMongo.CancelURL,
		SendEmailReceipt:   true,
		Metadata: map[string]string{
			"user_id": fmt.Sprintf("%d", userID),
		},
	})
	if err != nil {
		s.logger.Error("bulk checkout session creation failed",
			zap.Uint("user_id", userID),
			zap.Int("photos", len(req.PhotoIDs)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	purchases := make([]models.PhotoPurchase, 0, len(photos))
	for _, photo := range photos {
		purchases = append(purchases, models.PhotoPurchase{
			PhotoID:            photo.ID,
			UserID:             userID,
			Price:              photo.Price,
			Status:             models.PurchaseStatusPending,
			CheckoutSessionID:  session.ID,
			DownloadsRemaining: allowance,
			DownloadsTotal:     allowance,
		})
	}
	if err := s.purchaseRepo.CreateBatch(purchases); err != nil {
		return nil, err
	}

	s.logger.Info("bulk checkout created",
		zap.Uint("user_id", userID),
		zap.Int("photos", len(purchases)),
		zap.String("session_id", session.ID))

	return &models.CheckoutResponse{
		CheckoutURL: session.CheckoutURL,
		SessionID:   session.ID,
	}, nil
}

// CreateBookingCheckout collects a booking deposit or balance. No entitlement
// rows are written; the webhook reconciles against the bookings ledger.
func (s *CheckoutService) CreateBookingCheckout(ctx context.Context, userID uint, req models.BookingCheckoutRequest) (*models.CheckoutResponse, error) {
	booking, err := s.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, req.BookingID)
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("%w: booking belongs to another customer", ErrForbidden)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		Description:        fmt.Sprintf("Payment for booking #%d", booking.ID),
		PaymentMethodTypes: []string{req.Method},
		LineItems: []payment.LineItem{
			{
				Name:     fmt.Sprintf("Booking #%d", booking.ID),
				Amount:   toCentavos(req.Amount),
				Currency: currencyPHP,
				Quantity: 1,
			},
		},
		SuccessURL:       s.cfg.PayMongo.SuccessURL,
		CancelURL:        s.cfg.PayMongo.CancelURL,
		SendEmailReceipt: true,
		Metadata: map[string]string{
			"user_id":    fmt.Sprintf("%d", userID),
			"booking_id": fmt.Sprintf("%d", booking.ID),
		},
	})
	if err != nil {
		s.logger.Error("booking checkout session creation failed",
			zap.Uint("booking_id", booking.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	s.logger.Info("booking checkout created",
		zap.Uint("booking_id", booking.ID),
		zap.String("session_id", session.ID))

	return &models.CheckoutResponse{
		CheckoutURL: session.CheckoutURL,
		SessionID:   session.ID,
	}, nil
}

func toCentavos(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
