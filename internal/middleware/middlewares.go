// Package middleware holds the Echo middleware of the HTTP server: request
// ids, request-scoped logging, access token extraction, rate limiting and the
// global error handler.
package middleware

import (
	"github.com/deppfellow/usercheck/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server, so
// router setup receives one value instead of many.
type Middlewares struct {
	// Global: CORS, request logging, recovery, secure headers and the error handler.
	Global *GlobalMiddlewares

	// Auth extracts and validates the caller's access token.
	Auth *AuthMiddleware

	// ContextEnhancer attaches a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	RateLimit *RateLimitMiddleware
}

func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
