package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// TokenStore persists the session access token under a fixed Redis
// key so it survives process restarts.
type TokenStore struct {
	client *redis.Client
	key    string
}

func NewTokenStore(client *redis.Client, key string) *TokenStore {
	return &TokenStore{client: client, key: key}
}

// Save stores the token. Tokens carry their own expiry, so the key is
// written without a TTL.
func (s *TokenStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

// Load returns the stored token, or "" when none is stored
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load session token: %w", err)
	}
	return token, nil
}

// Clear removes the stored token. Missing key is not an error.
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
