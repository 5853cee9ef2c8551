package utils

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// InitValidator registers the custom binding rules on gin's validator engine.
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterCustomValidators(v)
	}
}

func RegisterCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("password", ValidatePasswordRule)
	_ = v.RegisterValidation("notblank", ValidateNotBlankRule)
}

func ValidatePasswordRule(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

func ValidateNotBlankRule(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidatePassword requires at least 6 characters, a digit and a symbol.
func ValidatePassword(password string) bool {
	if len(password) < 6 {
		return false
	}

	hasNumber := false
	hasSpecial := false
	for _, char := range password {
		switch {
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasNumber && hasSpecial
}
