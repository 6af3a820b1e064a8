package service

import (
	"context"

	"github.com/deppfellow/usercheck/internal/model"
	"github.com/rs/zerolog"
)

// UserFetcher fetches users from the source of truth.
type UserFetcher interface {
	GetUsers(ctx context.Context, token model.AccessTokenRequest, ids []int) ([]model.User, error)
}

// UserCache stores users between lookups.
type UserCache interface {
	GetMany(ctx context.Context, ids []int) (map[int]model.User, []int, error)
	SetMany(ctx context.Context, users []model.User) error
}

// UserService resolves user ids through the cache and the upstream API.
type UserService struct {
	fetcher UserFetcher
	cache   UserCache
	logger  *zerolog.Logger
}

// NewUserService constructs a UserService. cache may be nil.
func NewUserService(fetcher UserFetcher, cache UserCache, logger *zerolog.Logger) *UserService {
	return &UserService{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
}

// Lookup returns the users for ids in request order.
//
// Duplicate ids are resolved once. Ids that upstream does not return are
// skipped. Cache failures are logged and never fail the lookup.
func (s *UserService) Lookup(ctx context.Context, token model.AccessTokenRequest, ids []int) ([]model.User, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return []model.User{}, nil
	}

	found := make(map[int]model.User, len(unique))
	missing := unique

	if s.cache != nil {
		cached, notCached, err := s.cache.GetMany(ctx, unique)
		if err != nil {
			s.log(ctx).Warn().Err(err).Msg("user cache read failed, falling back to upstream")
		} else {
			found = cached
			missing = notCached
		}
	}

	if len(missing) > 0 {
		fetched, err := s.fetcher.GetUsers(ctx, token, missing)
		if err != nil {
			return nil, err
		}

		for _, u := range fetched {
			found[u.ID] = u
		}

		if s.cache != nil && len(fetched) > 0 {
			if err := s.cache.SetMany(ctx, fetched); err != nil {
				s.log(ctx).Warn().Err(err).Msg("user cache write failed")
			}
		}
	}

	s.log(ctx).Debug().
		Int("requested", len(unique)).
		Int("cache_hits", len(unique)-len(missing)).
		Msg("users resolved")

	users := make([]model.User, 0, len(unique))
	for _, id := range unique {
		if u, ok := found[id]; ok {
			users = append(users, u)
		}
	}

	return users, nil
}

// log prefers the request-scoped logger stored in ctx.
func (s *UserService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
