package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/deppfellow/usercheck/internal/errs"
	"github.com/deppfellow/usercheck/internal/model"
	"github.com/deppfellow/usercheck/internal/server"
	"github.com/deppfellow/usercheck/internal/validation"
	"github.com/labstack/echo/v4"
)

// AccessTokenKey is the Echo context key of the validated model.AccessTokenRequest.
const AccessTokenKey = "access_token"

// AuthMiddleware extracts the caller's access token for routes that proxy to
// the users API.
type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAccessToken reads the token from "Authorization: Bearer <token>" or,
// failing that, from the access_token query parameter. The token goes through
// model.NewAccessTokenRequest, so a missing or empty token is rejected with
// the same field errors a JSON body would get, but with a 401 status.
func (auth *AuthMiddleware) RequireAccessToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		input := map[string]any{}
		if token, ok := tokenFromRequest(c); ok {
			input["access_token"] = token
		}

		req, err := model.NewAccessTokenRequest(input)
		if err != nil {
			GetLogger(c).Warn().
				Str("function", "RequireAccessToken").
				Dur("duration", time.Since(start)).
				Msg("request without a usable access token")

			unauthorized := errs.NewUnauthorizedError("Access token required", false)

			var verr *validation.Error
			if errors.As(err, &verr) {
				unauthorized.Errors = verr.Fields
			}
			return unauthorized
		}

		c.Set(AccessTokenKey, req)

		return next(c)
	}
}

// GetAccessToken returns the token stored by RequireAccessToken.
func GetAccessToken(c echo.Context) (model.AccessTokenRequest, bool) {
	req, ok := c.Get(AccessTokenKey).(model.AccessTokenRequest)
	return req, ok
}

// tokenFromRequest prefers a non-empty bearer token over the query parameter.
// An empty bearer token is still reported as present, so the caller sees
// "is required" rather than a generic failure.
func tokenFromRequest(c echo.Context) (string, bool) {
	bearer := false

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token, true
		}
		bearer = true
	}

	if token := c.QueryParam("access_token"); token != "" {
		return token, true
	}

	return "", bearer
}
