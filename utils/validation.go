package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func ValidateMobileNumber(number string) bool {
	// Kenyan mobile format: 07XXXXXXXX / 01XXXXXXXX or +2547XXXXXXXX
	mobileRegex := regexp.MustCompile(`^(?:\+254|0)(7|1)[0-9]{8}$`)
	return mobileRegex.MatchString(number)
}

func ValidateTransactionCode(code string) bool {
	// M-PESA confirmation codes are 10 uppercase alphanumerics
	codeRegex := regexp.MustCompile(`^[A-Z0-9]{10}$`)
	return codeRegex.MatchString(code)
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func FormatValidationError(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			field := strings.ToLower(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", field)
			case "email":
				errors[field] = "Invalid email format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s", field, fieldError.Param())
			case "len":
				errors[field] = fmt.Sprintf("%s must be exactly %s characters", field, fieldError.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", field)
			}
		}
	}

	return errors
}
