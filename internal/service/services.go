// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// data from the handler, reads through the user cache and falls back to the
// upstream users API.
package service

import (
	"fmt"

	"github.com/deppfellow/usercheck/internal/repository"
	"github.com/deppfellow/usercheck/internal/server"
	"github.com/deppfellow/usercheck/internal/upstream"
)

type Services struct {
	Users *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	client, err := upstream.NewClient(s.Config.Upstream, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	var cache UserCache
	if repos.Users != nil {
		cache = repos.Users
	}

	return &Services{
		Users: NewUserService(client, cache, s.Logger),
	}, nil
}
