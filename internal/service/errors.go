package service

import "errors"

// Sentinel errors. Handlers map these onto HTTP statuses and short,
// machine-checkable reason strings.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnavailable     = errors.New("photo not available for purchase")
	ErrNotPurchased    = errors.New("not purchased")
	ErrAccessExpired   = errors.New("access expired")
	ErrNoDownloadsLeft = errors.New("no remaining downloads")
	ErrPaymentGateway  = errors.New("payment creation failed")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmailTaken      = errors.New("email already exists")
	ErrInvalidLogin    = errors.New("invalid email or password")
)
