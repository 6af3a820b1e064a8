package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/usercheck/internal/config"
	"github.com/deppfellow/usercheck/internal/errs"
	"github.com/deppfellow/usercheck/internal/model"
	"github.com/deppfellow/usercheck/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{Config: config.DefaultConfig(), Logger: &logger}
}

func TestParseUserIDs(t *testing.T) {
	ids, err := parseUserIDs(" 1, 2,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	for _, raw := range []string{"", " ", "a", "1,", "1.5", "-3"} {
		_, err := parseUserIDs(raw)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr, raw)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "user_ids", httpErr.Errors[0].Field)
	}
}

func TestParseUserIDsLimit(t *testing.T) {
	raw := strings.Repeat("1,", model.MaxUsersPerRequest) + "1"

	_, err := parseUserIDs(raw)
	require.Error(t, err)
	assert.Contains(t, err.(*errs.HTTPError).Errors[0].Error, "1000")
}

func TestValidateUsersHandler(t *testing.T) {
	h := NewUserHandler(newTestServer(), nil)

	res, err := h.ValidateUsers(nil, &model.ValidateUsersRequest{Users: []any{
		map[string]any{"id": json.Number("151413"), "first_name": "Adam", "last_name": "Stalone"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	_, err = h.ValidateUsers(nil, &model.ValidateUsersRequest{Users: []any{
		map[string]any{"not_id": 1},
	}})
	assert.ErrorIs(t, err, errs.ErrInvalidValue)
}

func TestValidateUsersHandlerNonObject(t *testing.T) {
	h := NewUserHandler(newTestServer(), nil)

	_, err := h.ValidateUsers(nil, &model.ValidateUsersRequest{Users: []any{
		map[string]any{"id": json.Number("1"), "first_name": "Adam", "last_name": "Stalone"},
		json.Number("5"),
	}})

	var httpErr interface{ HTTPError() *errs.HTTPError }
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "[1]", Error: "must be an object"}}, httpErr.HTTPError().Errors)
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name   string
		cache  Pinger
		checks map[string]any
	}{
		{"no cache", nil, map[string]any{}},
		{"cache up", fakePinger{}, map[string]any{"redis": "healthy"}},
		{"cache down", fakePinger{err: errors.New("connection refused")}, map[string]any{"redis": "unhealthy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(newTestServer(), tt.cache)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)

			require.NoError(t, h.CheckHealth(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Status string                    `json:"status"`
				Checks map[string]map[string]any `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "healthy", body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
			for name, status := range tt.checks {
				assert.Equal(t, status, body.Checks[name]["status"])
			}
		})
	}
}
