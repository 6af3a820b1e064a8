package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/deppfellow/usercheck/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by record types that know how to validate themselves.
//
// Typical pattern:
// - Define a struct with `json`, `mapstructure` and validator tags (`validate:"required"`)
// - Implement Validate() error on the pointer type that runs validation.Struct(r)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for checks that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate reads the JSON request body into payload and validates it.
//
// Flow:
// 1) the body is decoded into a generic object (numbers kept exact).
// 2) Decode checks presence and types, then payload.Validate() applies the tag rules.
// 3) Returns *errs.HTTPError (400) with field-level errors if anything fails.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	input, err := DecodeJSONObject(c.Request().Body)
	if err != nil {
		var verr *Error
		if errors.As(err, &verr) {
			return verr.HTTPError()
		}
		return errs.NewBadRequestError(err.Error(), false, nil, nil)
	}

	if err := Decode(input, payload); err != nil {
		var verr *Error
		if errors.As(err, &verr) {
			return verr.HTTPError()
		}
		return err
	}

	return nil
}

// extractFieldErrors converts whatever a Validate() call returned into
// client-facing field errors.
func extractFieldErrors(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Error: err.Error()}}
	}

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// strings: minimum length, numbers: minimum value, lists: minimum items
			switch err.Kind() {
			case reflect.String:
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			case reflect.Slice, reflect.Array, reflect.Map:
				msg = fmt.Sprintf("must contain at least %s items", err.Param())
			default:
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			switch err.Kind() {
			case reflect.String:
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			case reflect.Slice, reflect.Array, reflect.Map:
				msg = fmt.Sprintf("must not contain more than %s items", err.Param())
			default:
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "gte":
			msg = fmt.Sprintf("must be greater than or equal to %s", err.Param())

		case "lte":
			msg = fmt.Sprintf("must be less than or equal to %s", err.Param())

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "printascii":
			msg = "must contain only printable ASCII characters"

		case "dive":
			msg = "some items are invalid"

		default:
			// Tags not handled above: report tag and param to help debugging.
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: err.Field(),
			Error: msg,
		})
	}

	return fieldErrors
}
