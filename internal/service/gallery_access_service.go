package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/pkg/qrcode"
	"github.com/framelight/studio-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	accessCodePrefix = "PRF-"
	accessCodeLength = 6
	accessQRSize     = 256
)

// GalleryAccessService issues QR-backed access codes that staff hand to
// customers after a shoot.
type GalleryAccessService struct {
	accessRepo GalleryAccessRepository
	userRepo   UserRepository
	qrService  *qrcode.QRService
	validity   time.Duration
	logger     *zap.Logger
}

func NewGalleryAccessService(accessRepo GalleryAccessRepository, userRepo UserRepository, qrService *qrcode.QRService, validity time.Duration, logger *zap.Logger) *GalleryAccessService {
	return &GalleryAccessService{
		accessRepo: accessRepo,
		userRepo:   userRepo,
		qrService:  qrService,
		validity:   validity,
		logger:     logger,
	}
}

func (s *GalleryAccessService) GenerateCode(userID uint) (*models.AccessCodeResponse, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	suffix, err := utils.RandomCode(accessCodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access code: %w", err)
	}
	code := accessCodePrefix + suffix

	access := &models.GalleryAccessCode{
		UserID:    userID,
		Code:      code,
		ExpiresAt: time.Now().Add(s.validity),
	}
	if err := s.accessRepo.Create(access); err != nil {
		return nil, err
	}

	png, err := s.qrService.GenerateAccessQR(code, accessQRSize)
	if err != nil {
		return nil, err
	}

	s.logger.Info("gallery access code generated",
		zap.Uint("user_id", userID),
		zap.String("code", code))

	return &models.AccessCodeResponse{
		UserID:  userID,
		Code:    code,
		QRURL:   s.qrService.AccessURL(code),
		QRImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// ValidateCode resolves an access code to the owning user, rejecting unknown
// and expired codes distinctly.
func (s *GalleryAccessService) ValidateCode(code string) (uint, error) {
	access, err := s.accessRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: access code", ErrNotFound)
		}
		return 0, err
	}

	if access.ExpiresAt.Before(time.Now()) {
		return 0, ErrAccessExpired
	}

	return access.UserID, nil
}
