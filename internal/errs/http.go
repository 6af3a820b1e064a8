// Package errs defines the error shapes returned to API clients.
//
// Every failure that reaches the HTTP layer ends up as an *HTTPError so the
// client always receives the same JSON structure:
//   - a machine-friendly code (e.g. "BAD_REQUEST")
//   - a human-friendly message
//   - optional field-level errors for invalid payloads
package errs

import (
	"errors"
	"strings"
)

// ErrInvalidValue is the single error kind for records that fail validation.
//
// Validation errors in this module match it through errors.Is, whatever
// field or rule caused the failure.
var ErrInvalidValue = errors.New("invalid value")

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "first_name", "error": "is required" }
type FieldError struct {
	// Field is the field path the error relates to (e.g. "id" or "[3].id").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main error type for API responses.
//
// It is designed to be serialized directly to JSON.
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: lets the error handler replace the message with a generic one.
//   - Errors: list of per-field errors (validation).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It does not compare Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of the error with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
