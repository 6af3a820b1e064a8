package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/deppfellow/usercheck/internal/errs"
	"github.com/deppfellow/usercheck/internal/middleware"
	"github.com/deppfellow/usercheck/internal/model"
	"github.com/deppfellow/usercheck/internal/server"
	"github.com/labstack/echo/v4"
)

// UserLookup resolves user ids on behalf of a token holder.
type UserLookup interface {
	Lookup(ctx context.Context, token model.AccessTokenRequest, ids []int) ([]model.User, error)
}

// UsersResponse is the body of every endpoint that returns users.
type UsersResponse struct {
	Count int          `json:"count"`
	Users []model.User `json:"users"`
}

type UserHandler struct {
	Handler
	lookup UserLookup
}

func NewUserHandler(s *server.Server, lookup UserLookup) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		lookup:  lookup,
	}
}

// ValidateToken accepts a well-formed access token request. The pipeline has
// already rejected anything else.
func (h *UserHandler) ValidateToken(c echo.Context, req *model.AccessTokenRequest) error {
	return nil
}

// ValidateUsers checks every record of the request and echoes the typed users.
func (h *UserHandler) ValidateUsers(c echo.Context, req *model.ValidateUsersRequest) (*UsersResponse, error) {
	records, err := req.Records()
	if err != nil {
		return nil, err
	}

	users, err := model.NewUsers(records)
	if err != nil {
		return nil, err
	}

	return &UsersResponse{
		Count: len(users),
		Users: users,
	}, nil
}

// GetUsers looks up the comma separated user_ids for the caller's token.
func (h *UserHandler) GetUsers(c echo.Context) error {
	token, ok := middleware.GetAccessToken(c)
	if !ok {
		return errs.NewUnauthorizedError("Access token required", false)
	}

	ids, err := parseUserIDs(c.QueryParam("user_ids"))
	if err != nil {
		return err
	}

	users, err := h.lookup.Lookup(c.Request().Context(), token, ids)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &UsersResponse{
		Count: len(users),
		Users: users,
	})
}

func parseUserIDs(raw string) ([]int, error) {
	invalid := func(msg string) error {
		return errs.NewBadRequestError("Invalid user_ids", false, nil, []errs.FieldError{
			{Field: "user_ids", Error: msg},
		})
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, invalid("is required")
	}

	parts := strings.Split(raw, ",")
	if len(parts) > model.MaxUsersPerRequest {
		return nil, invalid("must not contain more than " + strconv.Itoa(model.MaxUsersPerRequest) + " items")
	}

	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id < 0 {
			return nil, invalid("must be a comma separated list of non-negative integers")
		}
		ids = append(ids, id)
	}

	return ids, nil
}
