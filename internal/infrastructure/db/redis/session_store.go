package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps server-side sessions in Redis.
// Key format: session:<sid> -> account id, expiring with the session.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Create(ctx context.Context, accountID int64, ttl time.Duration) (string, error) {
	sid := uuid.NewString()
	if err := s.client.Set(ctx, s.key(sid), accountID, ttl).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return sid, nil
}

func (s *SessionStore) Resolve(ctx context.Context, sid string) (int64, error) {
	v, err := s.client.Get(ctx, s.key(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("session resolve: %w", err)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session resolve: corrupt value: %w", err)
	}
	return id, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.key(sid)).Err()
}

func (s *SessionStore) key(sid string) string {
	return sessionKeyPrefix + sid
}
