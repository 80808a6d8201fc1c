package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/pkg/imaging"
	"github.com/framelight/studio-backend/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPhotoPrice = 100.0

// DownloadResult is a granted download: the original asset stream plus the
// cached framed variant path when one could be rendered.
type DownloadResult struct {
	File       io.ReadCloser
	FileName   string
	FramedPath string
}

// PhotoService covers staff uploads, the customer gallery with watermarked
// previews, and the download gate.
type PhotoService struct {
	photoRepo    PhotoRepository
	purchaseRepo PurchaseRepository
	txRepo       TransactionRepository
	store        storage.Storage
	renderer     *imaging.Renderer
	logger       *zap.Logger
}

func NewPhotoService(photoRepo PhotoRepository, purchaseRepo PurchaseRepository, txRepo TransactionRepository, store storage.Storage, renderer *imaging.Renderer, logger *zap.Logger) *PhotoService {
	return &PhotoService{
		photoRepo:    photoRepo,
		purchaseRepo: purchaseRepo,
		txRepo:       txRepo,
		store:        store,
		renderer:     renderer,
		logger:       logger,
	}
}

// UploadPhotos stores each file and creates available photo rows owned by the
// customer. Returns how many photos were saved.
func (s *PhotoService) UploadPhotos(customerID, staffID uint, files []*multipart.FileHeader, price float64, bookingID *uint) (int, error) {
	if len(files) == 0 {
		return 0, fmt.Errorf("%w: no files uploaded", ErrInvalidInput)
	}
	if price <= 0 {
		price = defaultPhotoPrice
	}

	photos := make([]models.Photo, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return 0, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
		}

		key := uuid.New().String() + filepath.Ext(header.Filename)
		err = s.store.Upload(key, file)
		file.Close()
		if err != nil {
			return 0, fmt.Errorf("failed to store upload %s: %w", header.Filename, err)
		}

		photos = append(photos, models.Photo{
			UserID:      customerID,
			UploadedBy:  staffID,
			BookingID:   bookingID,
			FileName:    header.Filename,
			FilePath:    key,
			Price:       price,
			Status:      models.PhotoStatusAvailable,
			IsPublished: true,
		})
	}

	if err := s.photoRepo.CreateBatch(photos); err != nil {
		return 0, err
	}

	s.logger.Info("photos uploaded",
		zap.Uint("customer_id", customerID),
		zap.Uint("staff_id", staffID),
		zap.Int("count", len(photos)))
	return len(photos), nil
}

// GetGallery lists the customer's published photos with watermarked preview
// paths and entitlement state. Photos whose original cannot be read are
// skipped rather than failing the whole listing.
func (s *PhotoService) GetGallery(userID uint) ([]models.GalleryItem, error) {
	photos, err := s.photoRepo.GetPublishedByUserID(userID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchaseRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	latest := make(map[uint]models.PhotoPurchase, len(purchases))
	for _, p := range purchases {
		if _, seen := latest[p.PhotoID]; !seen {
			latest[p.PhotoID] = p
		}
	}

	items := make([]models.GalleryItem, 0, len(photos))
	for _, photo := range photos {
		previewPath, err := s.renderer.EnsurePreview(photo.ID, s.opener(photo.FilePath))
		if err != nil {
			s.logger.Warn("skipping photo with unreadable original",
				zap.Uint("photo_id", photo.ID),
				zap.Error(err))
			continue
		}

		item := models.GalleryItem{
			ID:          photo.ID,
			FileName:    photo.FileName,
			PreviewPath: "/" + previewPath,
			Price:       photo.Price,
			Status:      photo.Status,
			ExpiresAt:   photo.ExpiresAt,
			CreatedAt:   photo.CreatedAt,
		}
		if purchase, ok := latest[photo.ID]; ok {
			item.PurchaseStatus = purchase.Status
			if purchase.Status == models.PurchaseStatusActive {
				item.DownloadsRemaining = purchase.DownloadsRemaining
				item.ExpiresAt = purchase.ExpiresAt
			}
		}
		items = append(items, item)
	}

	return items, nil
}

// Download enforces the entitlement gate and, if it passes, consumes one
// download and streams the original. The quota decrement is a conditional
// update, so two concurrent requests can never both spend the last slot.
func (s *PhotoService) Download(photoID, userID uint) (*DownloadResult, error) {
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
		}
		return nil, err
	}

	purchase, err := s.purchaseRepo.GetLatestByPhotoAndUser(photoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotPurchased
		}
		return nil, err
	}

	now := time.Now()
	if reason := gateReason(purchase, now); reason != nil {
		return nil, reason
	}

	consumed, err := s.purchaseRepo.ConsumeDownload(purchase.ID, now)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// Lost a race since the pre-check; re-read for the accurate reason.
		fresh, err := s.purchaseRepo.GetLatestByPhotoAndUser(photoID, userID)
		if err != nil {
			return nil, ErrNoDownloadsLeft
		}
		if reason := gateReason(fresh, now); reason != nil {
			return nil, reason
		}
		return nil, ErrNoDownloadsLeft
	}

	tx := &models.Transaction{
		UserID:        userID,
		ReferenceID:   fmt.Sprintf("dl-%d-%d", purchase.ID, now.UnixNano()),
		Type:          models.TransactionTypeDownload,
		RelatedID:     &photo.ID,
		Amount:        0,
		PaymentMethod: "system",
		Status:        models.TransactionStatusConfirmed,
	}
	if err := s.txRepo.Create(tx); err != nil {
		s.logger.Error("failed to record download transaction",
			zap.Uint("purchase_id", purchase.ID),
			zap.Error(err))
	}

	// Framed variant is best effort; the download proceeds without it.
	framedPath, err := s.renderer.EnsureFrame(photo.ID, s.opener(photo.FilePath))
	if err != nil {
		s.logger.Warn("framed variant unavailable",
			zap.Uint("photo_id", photo.ID),
			zap.Error(err))
		framedPath = ""
	}

	file, err := s.store.Open(photo.FilePath)
	if err != nil {
		// The consumed download is not refunded; the asset going missing
		// after purchase is an operational fault, not an entitlement one.
		s.logger.Error("original asset missing after quota decrement",
			zap.Uint("photo_id", photo.ID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}

	return &DownloadResult{
		File:       file,
		FileName:   photo.FileName,
		FramedPath: framedPath,
	}, nil
}

// gateReason returns the entitlement failure for a purchase, or nil when the
// download may proceed. Expiry and quota are independent gates.
func gateReason(purchase *models.PhotoPurchase, now time.Time) error {
	switch purchase.Status {
	case models.PurchaseStatusPending:
		return ErrNotPurchased
	case models.PurchaseStatusExpired:
		return ErrAccessExpired
	}
	if purchase.ExpiresAt != nil && purchase.ExpiresAt.Before(now) {
		return ErrAccessExpired
	}
	if purchase.DownloadsRemaining <= 0 {
		return ErrNoDownloadsLeft
	}
	return nil
}

func (s *PhotoService) GetDownloadSummary(userID uint) (*models.DownloadSummary, error) {
	return s.purchaseRepo.DownloadSummary(userID, time.Now())
}

// DeletePhoto removes the row, the backing asset and any cached derivatives.
func (s *PhotoService) DeletePhoto(photoID uint) error {
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
		}
		return err
	}

	if err := s.photoRepo.Delete(photoID); err != nil {
		return err
	}

	if err := s.store.Delete(photo.FilePath); err != nil {
		s.logger.Warn("failed to delete asset",
			zap.String("key", photo.FilePath),
			zap.Error(err))
	}
	os.Remove(s.renderer.PreviewPath(photoID))
	os.Remove(s.renderer.FramePath(photoID))

	return nil
}

func (s *PhotoService) DeletePhotosBulk(photoIDs []uint) (int64, error) {
	keys := make([]string, 0, len(photoIDs))
	for _, id := range photoIDs {
		photo, err := s.photoRepo.GetByID(id)
		if err != nil {
			continue
		}
		keys = append(keys, photo.FilePath)
	}

	deleted, err := s.photoRepo.DeleteBulk(photoIDs)
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		if err := s.store.Delete(key); err != nil {
			s.logger.Warn("failed to delete asset", zap.String("key", key), zap.Error(err))
		}
	}
	for _, id := range photoIDs {
		os.Remove(s.renderer.PreviewPath(id))
		os.Remove(s.renderer.FramePath(id))
	}

	return deleted, nil
}

func (s *PhotoService) opener(key string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return s.store.Open(key)
	}
}
