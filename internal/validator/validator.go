// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"financebot/internal/models"
)

// Phone numbers must hold between 10 and 15 digits once formatting is removed.
const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("stream", validateStream)
		_ = v.RegisterValidation("phone", validatePhone)
	}
}

func validateStream(fl validator.FieldLevel) bool {
	return models.EntryKind(fl.Field().String()).Valid()
}

func validatePhone(fl validator.FieldLevel) bool {
	digits := len(models.NormalizePhone(fl.Field().String()))
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}
