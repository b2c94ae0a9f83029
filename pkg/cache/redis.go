package cache

import (
	"context"
	"fmt"
	"time"

	"meow-site/pkg/config"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// SessionStore tracks revoked session tokens until they would have expired.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func revokedKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

func (s *SessionStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s == nil || s.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s == nil || s.client == nil || tokenID == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
