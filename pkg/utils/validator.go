package utils

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("supported_image", validateImageType)
	v.RegisterValidation("payment_method", validatePaymentMethod)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func validateImageType(fl validator.FieldLevel) bool {
	mimeType := fl.Field().String()
	supportedTypes := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return supportedTypes[mimeType]
}

// Payment methods the gateway accepts for hosted checkout.
func validatePaymentMethod(fl validator.FieldLevel) bool {
	method := fl.Field().String()
	supported := map[string]bool{
		"gcash":    true,
		"paymaya":  true,
		"grab_pay": true,
		"card":     true,
		"dob":      true,
		"billease": true,
		"qrph":     true,
	}
	return supported[method]
}
