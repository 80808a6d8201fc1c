package config

import (
	"os"
	"strconv"
	"time"
)

type PayMongoConfig struct {
	Mode          string // "test" or "live"
	TestSecretKey string
	LiveSecretKey string
	WebhookSecret string // empty disables signature verification
	SuccessURL    string
	CancelURL     string
}

// SecretKey returns the key matching the configured mode.
func (p PayMongoConfig) SecretKey() string {
	if p.Mode == "live" {
		return p.LiveSecretKey
	}
	return p.TestSecretKey
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type MediaConfig struct {
	Backend    string // "local" or "r2"; previews and frames always live on local disk
	UploadDir  string
	PreviewDir string
	FrameDir   string
}

type Config struct {
	PayMongo PayMongoConfig
	R2       R2Config
	Media    MediaConfig

	// Entitlement constants
	DownloadAllowance int
	ValidityWindow    time.Duration

	PublicBaseURL string
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.PayMongo.Mode = getEnv("PAYMONGO_MODE", "test")
	cfg.PayMongo.TestSecretKey = os.Getenv("PAYMONGO_TEST_SECRET_KEY")
	cfg.PayMongo.LiveSecretKey = os.Getenv("PAYMONGO_LIVE_SECRET_KEY")
	cfg.PayMongo.WebhookSecret = os.Getenv("PAYMONGO_WEBHOOK_SECRET")
	cfg.PayMongo.SuccessURL = getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/user/gallery?status=success")
	cfg.PayMongo.CancelURL = getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/user/gallery?status=cancelled")

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")

	cfg.Media.Backend = getEnv("MEDIA_BACKEND", "local")
	cfg.Media.UploadDir = getEnv("UPLOAD_DIR", "uploads")
	cfg.Media.PreviewDir = getEnv("PREVIEW_DIR", "uploads/previews")
	cfg.Media.FrameDir = getEnv("FRAME_DIR", "uploads/frames")

	cfg.DownloadAllowance = getEnvInt("DOWNLOAD_ALLOWANCE", 10)
	cfg.ValidityWindow = time.Duration(getEnvInt("VALIDITY_WINDOW_DAYS", 7)) * 24 * time.Hour

	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:3000")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
