// Package repository handles all interactions with the data stores.
//
// The only store today is Redis, used as a read-through cache of user
// records fetched from the upstream users API.
package repository

import (
	"github.com/deppfellow/usercheck/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	// Users is nil when no Redis address is configured.
	Users *UserRepository
}

// NewRepositories constructs the repository container from the server's shared clients.
func NewRepositories(s *server.Server) *Repositories {
	repos := &Repositories{}

	if s.Redis != nil {
		repos.Users = NewUserRepository(s.Redis, s.Config.Redis.TTL, s.Logger)
	}

	return repos
}
