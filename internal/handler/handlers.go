// Package handler is the HTTP layer behind the router.
//
// It decodes requests, validates them with the validation package and the
// model constructors, and calls the service layer.
package handler

import (
	"github.com/deppfellow/usercheck/internal/repository"
	"github.com/deppfellow/usercheck/internal/server"
	"github.com/deppfellow/usercheck/internal/service"
)

// Handlers groups all HTTP handlers.
type Handlers struct {
	Health *HealthHandler
	Users  *UserHandler
}

func NewHandlers(s *server.Server, repos *repository.Repositories, services *service.Services) *Handlers {
	// A nil *UserRepository must not become a non-nil Pinger.
	var cache Pinger
	if repos.Users != nil {
		cache = repos.Users
	}

	return &Handlers{
		Health: NewHealthHandler(s, cache),
		Users:  NewUserHandler(s, services.Users),
	}
}
