package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRService renders gallery access codes as scannable PNGs.
type QRService struct {
	baseURL string // e.g. "https://studio.example.com/gallery?code="
}

func NewQRService(baseURL string) *QRService {
	return &QRService{
		baseURL: baseURL,
	}
}

// AccessURL is the gallery URL a scanned code resolves to.
func (s *QRService) AccessURL(accessCode string) string {
	return fmt.Sprintf("%s%s", s.baseURL, accessCode)
}

// GenerateAccessQR returns a PNG QR code pointing at the gallery URL for the
// given access code.
func (s *QRService) GenerateAccessQR(accessCode string, size int) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s", s.baseURL, accessCode)

	png, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}

	return png, nil
}
