// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("signature_type", validateSignatureType)
	validate.RegisterValidation("org_type", validateOrgType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateSignatureType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "typed", "drawn", "uploaded":
		return true
	}
	return false
}

func validateOrgType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "company", "bureau":
		return true
	}
	return false
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "signature_type":
		return "Signature type must be one of: typed, drawn, uploaded"
	case "org_type":
		return "Organization type must be company or bureau"
	default:
		return e.Field() + " is invalid"
	}
}
