// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/usercheck/internal/handler"
	"github.com/deppfellow/usercheck/internal/middleware"
	"github.com/deppfellow/usercheck/internal/model"
	"github.com/deppfellow/usercheck/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with global middleware and all routes.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id feeds the request-scoped logger, which the
	// request logger and every later middleware read.
	router.Use(
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerUserRoutes(v1, h, middlewares)

	return router
}

func registerUserRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	g.POST("/token/validate", handler.HandleNoContent(
		h.Users.Handler,
		h.Users.ValidateToken,
		http.StatusNoContent,
		func() *model.AccessTokenRequest { return &model.AccessTokenRequest{} },
	))

	g.POST("/users/validate", handler.Handle(
		h.Users.Handler,
		h.Users.ValidateUsers,
		http.StatusOK,
		func() *model.ValidateUsersRequest { return &model.ValidateUsersRequest{} },
	))

	g.GET("/users", h.Users.GetUsers, m.Auth.RequireAccessToken)
}
