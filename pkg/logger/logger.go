package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide logger. Development mode gives human-readable
// output when APP_ENV is not "production".
func New() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
