package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "TOO_MANY_REQUESTS", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)))
}

func TestConstructors(t *testing.T) {
	code := "UPSTREAM_ERROR"

	tests := []struct {
		err    *HTTPError
		status int
		code   string
	}{
		{NewUnauthorizedError("no token", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{NewBadRequestError("bad", false, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{NewNotFoundError("gone", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{NewBadGatewayError("upstream down", &code), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Status)
		assert.Equal(t, tt.code, tt.err.Code)
	}
}

func TestHTTPErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewBadRequestError("bad", false, nil, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(wrapped, ErrInvalidValue))
}

func TestValidationError(t *testing.T) {
	fields := []FieldError{{Field: "id", Error: "is required"}}

	err := ValidationError("Validation failed", fields)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "BAD_REQUEST", err.Code)
	assert.Equal(t, fields, err.Errors)

	renamed := err.WithMessage("Invalid user")
	assert.Equal(t, "Invalid user", renamed.Message)
	assert.Equal(t, fields, renamed.Errors)
	assert.Equal(t, "Validation failed", err.Message)
}
