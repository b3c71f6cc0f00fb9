package session

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/loyaltyscan/backend/internal/domain/repositories"
	redisclient "github.com/loyaltyscan/backend/internal/infrastructure/clients/redis"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

// sessionKey is the single key holding the active-session pointer. The
// design assumes one interactive session at a time, so one key is all the
// state there is.
const sessionKey = "session:active_user"

// RedisSessionAdapter implements the SessionRepository interface on Redis
type RedisSessionAdapter struct {
	client *redisclient.Client
}

// NewRedisSessionAdapter creates a new Redis session adapter
func NewRedisSessionAdapter(client *redisclient.Client) repositories.SessionRepository {
	return &RedisSessionAdapter{client: client}
}

// Set records userID as the active identity
func (a *RedisSessionAdapter) Set(ctx context.Context, userID string) error {
	if err := a.client.Client().Set(ctx, sessionKey, userID, 0).Err(); err != nil {
		return apperrors.NewInternalError("failed to store active session", err)
	}
	return nil
}

// Get returns the active user ID, or "" when no session is active
func (a *RedisSessionAdapter) Get(ctx context.Context) (string, error) {
	userID, err := a.client.Client().Get(ctx, sessionKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewInternalError("failed to read active session", err)
	}
	return userID, nil
}

// Clear removes the active session pointer
func (a *RedisSessionAdapter) Clear(ctx context.Context) error {
	if err := a.client.Client().Del(ctx, sessionKey).Err(); err != nil {
		return apperrors.NewInternalError("failed to clear active session", err)
	}
	return nil
}
