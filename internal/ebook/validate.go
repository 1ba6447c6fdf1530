package ebook

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describes a single failed constraint on an input shape.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateInput runs the struct-tag constraints on an input shape and returns
// one entry per failed field. A nil result means the input is valid.
func ValidateInput(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldName,
			Message: message,
		})
	}

	return fieldErrors
}
