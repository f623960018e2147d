package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRefreshTokenUnknown is returned when a refresh token is absent from the
// store: never issued, already consumed, or expired.
var ErrRefreshTokenUnknown = errors.New("auth: refresh token unknown")

const refreshKeyPrefix = "auth:refresh:"

// RefreshStore keeps issued refresh tokens in Redis with their lifetime as
// the key TTL. The database session row is the audit trail; this store is
// the fast-path validity check.
type RefreshStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRefreshStore constructs a RefreshStore.
func NewRefreshStore(client *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{client: client, ttl: ttl}
}

// TTL returns the refresh-token lifetime.
func (s *RefreshStore) TTL() time.Duration {
	return s.ttl
}

// Save records a refresh token for the user.
func (s *RefreshStore) Save(ctx context.Context, token string, userID int64) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("auth: save refresh token: %w", err)
	}
	return nil
}

// Consume atomically removes a refresh token and returns its user. Rotation
// and replay protection both hinge on the single-use removal.
func (s *RefreshStore) Consume(ctx context.Context, token string) (int64, error) {
	raw, err := s.client.GetDel(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrRefreshTokenUnknown
		}
		return 0, fmt.Errorf("auth: consume refresh token: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("auth: corrupt refresh token entry: %w", err)
	}
	return userID, nil
}
