package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"

	"github.com/redis/go-redis/v9"
)

// Historically the token was written under two different keys by different
// call sites. accessTokenKey is canonical; legacyTokenKey is read once and
// migrated forward, never written again.
const (
	accessTokenKey = "auth:access_token"
	legacyTokenKey = "auth:token"
)

// RedisTokenStore persists the service's upstream access token in Redis.
type RedisTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisTokenStore creates a token store on the given Redis client.
// A zero ttl stores tokens without expiry.
func NewRedisTokenStore(rdb *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb, ttl: ttl}
}

// AccessToken implements TokenSource. It reads the canonical key first and
// falls back to the legacy key, migrating the value forward on hit.
func (s *RedisTokenStore) AccessToken(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, accessTokenKey).Result()
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", apperr.Wrap(apperr.KindUnavailable, "token store unavailable", err)
	}

	legacy, err := s.rdb.Get(ctx, legacyTokenKey).Result()
	if errors.Is(err, redis.Nil) || (err == nil && legacy == "") {
		return "", apperr.Unauthorized("no access token available")
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, "token store unavailable", err)
	}

	if err := s.migrate(ctx, legacy); err != nil {
		return "", err
	}
	return legacy, nil
}

// SetAccessToken stores a fresh token under the canonical key.
func (s *RedisTokenStore) SetAccessToken(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, accessTokenKey, token, s.ttl).Err(); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to store access token", err)
	}
	return nil
}

// ClearAccessToken removes both the canonical and the legacy key.
func (s *RedisTokenStore) ClearAccessToken(ctx context.Context) error {
	if err := s.rdb.Del(ctx, accessTokenKey, legacyTokenKey).Err(); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to clear access token", err)
	}
	return nil
}

func (s *RedisTokenStore) migrate(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, accessTokenKey, token, s.ttl).Err(); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to migrate access token", err)
	}
	// Best effort: a surviving legacy key is harmless, the canonical key wins.
	_ = s.rdb.Del(ctx, legacyTokenKey).Err()
	return nil
}
