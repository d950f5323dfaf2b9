package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Roadpeak/D3-client-sub000/models"

	"github.com/go-redis/redis/v8"
)

// sessionTTL bounds how long an abandoned wizard survives in the cache.
const sessionTTL = 30 * time.Minute

// SessionStore persists wizard sessions between handler calls.
type SessionStore interface {
	Save(ctx context.Context, session *models.WizardSession) error
	Get(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions as JSON blobs with a TTL.
type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return "wizard:" + sessionID
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard session: %w", err)
	}
	if err := s.Client.Set(ctx, s.key(session.SessionID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store wizard session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	data, err := s.Client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}
	var session models.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse wizard session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, s.key(sessionID)).Err()
}
