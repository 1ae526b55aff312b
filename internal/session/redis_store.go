package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps one active refresh token per user. A nil client is
// tolerated the way the cache layer tolerates it: validation degrades to
// accepting the token signature alone.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func refreshKey(userID uuid.UUID) string {
	return fmt.Sprintf("session:refresh:%s", userID)
}

func (s *RedisTokenStore) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Set(ctx, refreshKey(userID), token, ttl).Err()
}

func (s *RedisTokenStore) RefreshTokenMatches(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	if s == nil || s.client == nil {
		return true, nil
	}
	stored, err := s.client.Get(ctx, refreshKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return stored == token, nil
}

func (s *RedisTokenStore) RevokeRefreshToken(ctx context.Context, userID uuid.UUID) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, refreshKey(userID)).Err()
}
