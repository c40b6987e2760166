package token

import (
	"context"
	"errors"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const accessTokenKey = "mpesa_access_token"

// RedisStore shares one token between every instance pointed at the same Redis.
type RedisStore struct {
	cache *redis.Client
	now   func() time.Time
}

func NewRedisStore(cache *redis.Client) *RedisStore {
	return &RedisStore{
		cache: cache,
		now:   time.Now,
	}
}

func (s *RedisStore) Load(ctx context.Context) (models.AccessToken, bool, error) {
	payload, err := s.cache.Get(ctx, accessTokenKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.AccessToken{}, false, nil
	}
	if err != nil {
		return models.AccessToken{}, false, err
	}

	var token models.AccessToken
	if err := sonic.ConfigFastest.Unmarshal(payload, &token); err != nil {
		return models.AccessToken{}, false, err
	}

	return token, true, nil
}

func (s *RedisStore) Save(ctx context.Context, token models.AccessToken) error {
	ttl := token.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.cache.Del(ctx, accessTokenKey).Err()
	}

	payload, err := sonic.ConfigFastest.Marshal(token)
	if err != nil {
		return err
	}

	return s.cache.Set(ctx, accessTokenKey, payload, ttl).Err()
}
