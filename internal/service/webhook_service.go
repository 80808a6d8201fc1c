package service

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/framelight/studio-backend/internal/config"
	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Checkout descriptions double as the routing key for paid events. The same
// patterns are produced by CheckoutService.
var (
	photoPattern   = regexp.MustCompile(`Photo #(\d+)`)
	bulkPattern    = regexp.MustCompile(`Bulk purchase for user #(\d+)`)
	bookingPattern = regexp.MustCompile(`Payment for booking #(\d+)`)
)

// WebhookService reconciles asynchronous gateway confirmations with pending
// entitlements. Replayed deliveries are safe: activation is a conditional
// update that only the first delivery wins, and booking transactions are
// deduplicated on the gateway payment reference.
type WebhookService struct {
	reconRepo   ReconciliationRepository
	txRepo      TransactionRepository
	bookingRepo BookingRepository
	cfg         *config.Config
	logger      *zap.Logger
}

func NewWebhookService(reconRepo ReconciliationRepository, txRepo TransactionRepository, bookingRepo BookingRepository, cfg *config.Config, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		reconRepo:   reconRepo,
		txRepo:      txRepo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// HandleEvent processes one gateway event. Returning nil means the delivery
// is acknowledged and the gateway stops retrying; unmatched or replayed
// events are acknowledged on purpose.
func (s *WebhookService) HandleEvent(event *payment.WebhookEvent) error {
	if event.Type() != payment.EventTypeCheckoutPaid {
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type()))
		return nil
	}

	description := event.Description()
	switch {
	case bookingPattern.MatchString(description):
		return s.handleBookingPayment(event)
	case bulkPattern.MatchString(description):
		return s.handlePhotoPayment(event, true)
	case photoPattern.MatchString(description):
		return s.handlePhotoPayment(event, false)
	default:
		s.logger.Warn("paid event with unrecognized description",
			zap.String("session_id", event.SessionID()),
			zap.String("description", description))
		return nil
	}
}

func (s *WebhookService) handlePhotoPayment(event *payment.WebhookEvent, bulk bool) error {
	sessionID := event.SessionID()
	now := time.Now()
	expiresAt := now.Add(s.cfg.ValidityWindow)

	// Activation, photo marking and the confirming ledger row are one unit:
	// if any piece fails, the session stays pending and the gateway retry
	// redoes all of it.
	affected, err := s.reconRepo.ActivateSession(sessionID, now, expiresAt, func(activated []models.PhotoPurchase) *models.Transaction {
		userID := s.metadataUserID(event)
		if userID == 0 {
			userID = activated[0].UserID
		}

		txType := models.TransactionTypePhoto
		var relatedID *uint
		if bulk {
			txType = models.TransactionTypePhotoBulk
		} else {
			relatedID = &activated[0].PhotoID
		}

		return &models.Transaction{
			UserID:        userID,
			ReferenceID:   event.ReferenceID(),
			Type:          txType,
			RelatedID:     relatedID,
			Amount:        event.TotalAmount(),
			PaymentMethod: event.PaymentMethod(),
			Status:        models.TransactionStatusConfirmed,
		}
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		// Already processed or unknown session; acknowledge so the gateway
		// stops retrying.
		s.logger.Info("no pending purchases for session",
			zap.String("session_id", sessionID))
		return nil
	}

	s.logger.Info("purchase activated",
		zap.String("session_id", sessionID),
		zap.Int64("purchases", affected),
		zap.Time("expires_at", expiresAt))
	return nil
}

func (s *WebhookService) handleBookingPayment(event *payment.WebhookEvent) error {
	match := bookingPattern.FindStringSubmatch(event.Description())
	bookingID64, _ := strconv.ParseUint(match[1], 10, 32)
	bookingID := uint(bookingID64)

	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("paid event for unknown booking", zap.Uint("booking_id", bookingID))
			return nil
		}
		return err
	}

	// Bookings have no pending row to gate on, so dedupe on the gateway
	// payment reference instead.
	exists, err := s.txRepo.ExistsByReference(event.ReferenceID(), models.TransactionTypeBooking)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Info("booking payment already recorded",
			zap.String("reference_id", event.ReferenceID()))
		return nil
	}

	userID := s.metadataUserID(event)
	if userID == 0 {
		userID = booking.UserID
	}

	tx := &models.Transaction{
		UserID:        userID,
		ReferenceID:   event.ReferenceID(),
		Type:          models.TransactionTypeBooking,
		RelatedID:     &booking.ID,
		Amount:        event.TotalAmount(),
		PaymentMethod: event.PaymentMethod(),
		Status:        models.TransactionStatusConfirmed,
	}
	if err := s.txRepo.Create(tx); err != nil {
		return err
	}

	paidTotal, err := s.txRepo.SumBookingPayments(booking.ID)
	if err != nil {
		return err
	}

	status := models.BookingPaymentPartial
	if paidTotal >= booking.ServicePrice {
		status = models.BookingPaymentPaid
	}
	if err := s.bookingRepo.UpdatePaymentStatus(booking.ID, status); err != nil {
		return err
	}

	s.logger.Info("booking payment recorded",
		zap.Uint("booking_id", booking.ID),
		zap.Float64("paid_total", paidTotal),
		zap.String("payment_status", status))
	return nil
}

func (s *WebhookService) metadataUserID(event *payment.WebhookEvent) uint {
	raw, ok := event.Metadata()["user_id"]
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
