package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/profplay/isbasi/backend/internal/domain/entities"
	"github.com/profplay/isbasi/backend/internal/domain/providers"
	"github.com/profplay/isbasi/backend/internal/domain/repositories"
	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
)

const userCacheName = "user"

// CachedUserAdapter wraps a UserRepository with a read-through profile cache
type CachedUserAdapter struct {
	adapter repositories.UserRepository
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
}

// NewCachedUserAdapter creates a new cached user adapter. metrics may be nil.
func NewCachedUserAdapter(adapter repositories.UserRepository, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) repositories.UserRepository {
	seconds := int(ttl.Seconds())
	if seconds <= 0 {
		seconds = 300
	}
	return &CachedUserAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     seconds,
		metrics: metrics,
	}
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// GetByID retrieves a user by ID, consulting the cache first
func (a *CachedUserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	cacheKey := userCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var user entities.User
		decodeErr := json.Unmarshal(cached, &user)
		if decodeErr == nil {
			observability.RecordCacheHit(ctx, a.metrics, userCacheName)
			return &user, nil
		}
		log.Warn().Err(decodeErr).Str("user_id", id).Msg("discarding undecodable cached user")
	}
	observability.RecordCacheMiss(ctx, a.metrics, userCacheName)

	user, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(ctx, user)
	return user, nil
}

// GetByIDs retrieves several users, loading only the cache misses from the backend
func (a *CachedUserAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	if len(ids) == 0 {
		return []*entities.User{}, nil
	}

	cacheKeys := make([]string, len(ids))
	for i, id := range ids {
		cacheKeys[i] = userCacheKey(id)
	}

	cached, err := a.cache.GetMulti(ctx, cacheKeys)
	if err != nil {
		log.Warn().Err(err).Msg("user cache unavailable, reading through")
		cached = nil
	}

	users := make([]*entities.User, 0, len(ids))
	missingIDs := make([]string, 0)
	for i, id := range ids {
		if data, ok := cached[cacheKeys[i]]; ok {
			var user entities.User
			decodeErr := json.Unmarshal(data, &user)
			if decodeErr == nil {
				users = append(users, &user)
				continue
			}
			log.Warn().Err(decodeErr).Str("user_id", id).Msg("discarding undecodable cached user")
		}
		missingIDs = append(missingIDs, id)
	}

	if hits := len(ids) - len(missingIDs); hits > 0 {
		observability.RecordCacheHit(ctx, a.metrics, userCacheName)
	}
	if len(missingIDs) == 0 {
		return users, nil
	}
	observability.RecordCacheMiss(ctx, a.metrics, userCacheName)

	loaded, err := a.adapter.GetByIDs(ctx, missingIDs)
	if err != nil {
		return nil, err
	}
	for _, user := range loaded {
		a.store(ctx, user)
	}

	return append(users, loaded...), nil
}

// UpdateProfile writes through and evicts the cached profile
func (a *CachedUserAdapter) UpdateProfile(ctx context.Context, id string, name, bio *string) error {
	if err := a.adapter.UpdateProfile(ctx, id, name, bio); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, userCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("failed to evict cached user")
	}
	return nil
}

func (a *CachedUserAdapter) store(ctx context.Context, user *entities.User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, userCacheKey(user.ID), data, a.ttl); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to cache user")
	}
}
