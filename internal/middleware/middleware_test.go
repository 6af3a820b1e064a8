package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/usercheck/internal/config"
	"github.com/deppfellow/usercheck/internal/errs"
	"github.com/deppfellow/usercheck/internal/model"
	"github.com/deppfellow/usercheck/internal/server"
	"github.com/deppfellow/usercheck/internal/upstream"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(w *bytes.Buffer) *server.Server {
	logger := zerolog.New(w)
	return &server.Server{Config: config.DefaultConfig(), Logger: &logger}
}

func TestToHTTPError(t *testing.T) {
	invalid, err := model.NewUser(map[string]any{"id": "x", "first_name": "Adam", "last_name": "Stalone"})
	require.Error(t, err)
	assert.Zero(t, invalid)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"http error", errs.NewNotFoundError("missing", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"validation error", err, http.StatusBadRequest, "BAD_REQUEST"},
		{"upstream unauthorized", upstream.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"upstream invalid record", &upstream.Error{StatusCode: http.StatusOK, Message: "invalid users response", Err: err}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"echo method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := toHTTPError(tt.err)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestGlobalErrorHandlerWritesJSON(t *testing.T) {
	var logs bytes.Buffer
	global := NewGlobalMiddlewares(newTestServer(&logs))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	global.GlobalErrorHandler(errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{
		{Field: "id", Error: "is required"},
	}), c)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "is required"}}, body.Errors)
}

func TestGlobalErrorHandlerOverridesInProduction(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(&logs)
	s.Config.Primary.Env = "production"
	s.Config.Observability.Environment = "production"
	global := NewGlobalMiddlewares(s)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	global.GlobalErrorHandler(&errs.HTTPError{
		Code:     "INTERNAL_SERVER_ERROR",
		Message:  "pool exhausted",
		Status:   http.StatusInternalServerError,
		Override: true,
	}, c)

	assert.NotContains(t, rec.Body.String(), "pool exhausted")

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Message)
}

func TestContextEnhancer(t *testing.T) {
	var logs bytes.Buffer
	ce := NewContextEnhancer(newTestServer(&logs))

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), httptest.NewRecorder())
	c.Set(RequestIDKey, "req-1")

	err := ce.EnhanceContext()(func(c echo.Context) error {
		GetLogger(c).Info().Msg("from echo context")
		zerolog.Ctx(c.Request().Context()).Info().Msg("from request context")
		return nil
	})(c)
	require.NoError(t, err)

	assert.Equal(t, 2, bytes.Count(logs.Bytes(), []byte(`"request_id":"req-1"`)))
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Equal(t, zerolog.Disabled, GetLogger(c).GetLevel())
}

func TestRequireAccessToken(t *testing.T) {
	var logs bytes.Buffer
	auth := NewAuthMiddleware(newTestServer(&logs))

	tests := []struct {
		name   string
		target string
		header string
		token  string
		ok     bool
	}{
		{"bearer header", "/", "Bearer test_token", "test_token", true},
		{"lowercase scheme", "/", "bearer test_token", "test_token", true},
		{"query parameter", "/?access_token=query_token", "", "query_token", true},
		{"header wins", "/?access_token=query_token", "Bearer header_token", "header_token", true},
		{"missing", "/", "", "", false},
		{"empty bearer", "/", "Bearer ", "", false},
		{"empty bearer falls back to query", "/?access_token=query_token", "Bearer  ", "query_token", true},
		{"other scheme", "/", "Basic dXNlcjpwYXNz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}

			e := echo.New()
			c := e.NewContext(req, httptest.NewRecorder())

			called := false
			err := auth.RequireAccessToken(func(c echo.Context) error {
				called = true
				got, ok := GetAccessToken(c)
				require.True(t, ok)
				assert.Equal(t, tt.token, got.AccessToken)
				return nil
			})(c)

			assert.Equal(t, tt.ok, called)
			if tt.ok {
				require.NoError(t, err)
				return
			}

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
		})
	}
}
