package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/usercheck/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const userKeyPrefix = "usercheck:user:"

// UserRepository caches user records in Redis as JSON strings with a TTL.
type UserRepository struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(rdb redis.Cmdable, ttl time.Duration, logger *zerolog.Logger) *UserRepository {
	return &UserRepository{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func userKey(id int) string {
	return userKeyPrefix + strconv.Itoa(id)
}

// GetMany looks up ids in the cache.
//
// It returns the cached users keyed by id and the ids that were not found,
// in the order they were asked for. Entries that no longer pass validation
// are treated as missing.
func (r *UserRepository) GetMany(ctx context.Context, ids []int) (map[int]model.User, []int, error) {
	found := make(map[int]model.User, len(ids))
	if len(ids) == 0 {
		return found, nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cached users: %w", err)
	}

	var missing []int
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}

		u, err := model.ParseUser([]byte(raw))
		if err != nil || u.ID != ids[i] {
			r.logger.Warn().
				Err(err).
				Str("key", keys[i]).
				Msg("discarding invalid cached user")
			missing = append(missing, ids[i])
			continue
		}
		found[u.ID] = u
	}

	return found, missing, nil
}

// SetMany stores users in the cache in a single pipeline.
func (r *UserRepository) SetMany(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}

	_, err := r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, u := range users {
			data, err := json.Marshal(u)
			if err != nil {
				return fmt.Errorf("failed to encode user %d: %w", u.ID, err)
			}
			pipe.Set(ctx, userKey(u.ID), data, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cache users: %w", err)
	}

	return nil
}

// Ping checks the Redis connection.
func (r *UserRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
