package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "customer-portal/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionRepositoryInterface stores session tokens mapped to user IDs.
// A token expires when its TTL runs out or the session is deleted.
type SessionRepositoryInterface interface {
	Create(ctx context.Context, token string, userID uint64, ttl time.Duration) error
	GetUserID(ctx context.Context, token string) (uint64, error)
	Delete(ctx context.Context, token string) error
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepositoryInterface {
	return &sessionRepository{client: client}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (r *sessionRepository) Create(ctx context.Context, token string, userID uint64, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKey(token), userID, ttl).Err()
}

func (r *sessionRepository) GetUserID(ctx context.Context, token string) (uint64, error) {
	value, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperrors.ErrSessionNotFound
		}
		return 0, err
	}
	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}
