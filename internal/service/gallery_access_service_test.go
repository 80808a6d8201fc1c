package service

import (
	"strings"
	"testing"
	"time"

	"github.com/framelight/studio-backend/internal/models"
	"github.com/framelight/studio-backend/pkg/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAccessEnv() (*GalleryAccessService, *fakeAccessRepo, *fakeUserRepo) {
	accessRepo := newFakeAccessRepo()
	userRepo := newFakeUserRepo()
	qrService := qrcode.NewQRService("http://localhost:3000/gallery?code=")
	svc := NewGalleryAccessService(accessRepo, userRepo, qrService, 7*24*time.Hour, zap.NewNop())
	return svc, accessRepo, userRepo
}

func TestGenerateCode(t *testing.T) {
	svc, accessRepo, userRepo := newAccessEnv()
	user := &models.User{FullName: "Ana Reyes", Email: "ana@example.com", Role: models.RoleCustomer}
	require.NoError(t, userRepo.Create(user))

	resp, err := svc.GenerateCode(user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, resp.UserID)
	assert.True(t, strings.HasPrefix(resp.Code, "PRF-"))
	assert.Len(t, resp.Code, len("PRF-")+6)
	assert.Equal(t, "http://localhost:3000/gallery?code="+resp.Code, resp.QRURL)
	assert.True(t, strings.HasPrefix(resp.QRImage, "data:image/png;base64,"))

	stored, err := accessRepo.GetByCode(resp.Code)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.UserID)
	assert.True(t, stored.ExpiresAt.After(time.Now()))
}

func TestGenerateCodeUnknownUser(t *testing.T) {
	svc, _, _ := newAccessEnv()
	_, err := svc.GenerateCode(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateCode(t *testing.T) {
	svc, accessRepo, userRepo := newAccessEnv()
	user := &models.User{Email: "ana@example.com", Role: models.RoleCustomer}
	require.NoError(t, userRepo.Create(user))

	require.NoError(t, accessRepo.Create(&models.GalleryAccessCode{
		UserID:    user.ID,
		Code:      "PRF-AAA111",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, accessRepo.Create(&models.GalleryAccessCode{
		UserID:    user.ID,
		Code:      "PRF-OLD000",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	userID, err := svc.ValidateCode("PRF-AAA111")
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = svc.ValidateCode("PRF-OLD000")
	assert.ErrorIs(t, err, ErrAccessExpired)

	_, err = svc.ValidateCode("PRF-NOPE99")
	assert.ErrorIs(t, err, ErrNotFound)
}
