// Package validation turns loosely typed input (decoded JSON, query
// parameters) into typed records.
//
// It uses the `mapstructure` library to check that every known field is
// present and has the right primitive type, and the `validator` library to
// enforce the rules defined in struct tags. Failures come back as *Error,
// which carries field-level messages the client can understand.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/usercheck/internal/errs"
	"github.com/go-playground/validator/v10"
)

// validate is shared by every caller; *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field names the way clients send them ("first_name", not "FirstName").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	return v
}

// Struct runs the `validate` struct tags of s.
//
// It returns validator.ValidationErrors on rule failures.
func Struct(s any) error {
	return validate.Struct(s)
}

// Error is returned when input cannot be turned into a valid record.
//
// It always matches errs.ErrInvalidValue through errors.Is.
type Error struct {
	Message string
	Fields  []errs.FieldError
}

func newError(fields []errs.FieldError) *Error {
	return &Error{Message: "Validation failed", Fields: fields}
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Error)
			continue
		}
		parts = append(parts, f.Field+" "+f.Error)
	}

	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return errs.ErrInvalidValue
}

// HTTPError converts the failure into a 400 response with field errors.
func (e *Error) HTTPError() *errs.HTTPError {
	return errs.ValidationError(e.Message, e.Fields)
}

// AtIndex prefixes every field path of err with the list index i, so a
// failure in the fourth record reads "[3].id". Errors that are not *Error
// are wrapped with the index instead.
func AtIndex(err error, i int) error {
	verr, ok := err.(*Error)
	if !ok {
		return fmt.Errorf("record %d: %w", i, err)
	}

	fields := make([]errs.FieldError, len(verr.Fields))
	for j, f := range verr.Fields {
		path := fmt.Sprintf("[%d]", i)
		if f.Field != "" {
			path += "." + f.Field
		}
		fields[j] = errs.FieldError{Field: path, Error: f.Error}
	}

	return &Error{Message: verr.Message, Fields: fields}
}
