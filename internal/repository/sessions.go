package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lk16/holothello/internal/config"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/services"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "sessions:"

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores running sessions in Redis.
type SessionRepository struct {
	services *services.Services
	ttl      time.Duration
}

// NewSessionRepositoryFromServices creates a SessionRepository. Sessions expire
// ttl after they were last saved, a non-positive ttl means config.DefaultSessionTTL.
func NewSessionRepositoryFromServices(services *services.Services, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = config.DefaultSessionTTL
	}

	return &SessionRepository{
		services: services,
		ttl:      ttl,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// SaveSession stores a session and resets its TTL.
func (repo *SessionRepository) SaveSession(ctx context.Context, record models.SessionRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshaling session: %w", err)
	}

	redisConn := repo.services.Redis

	err = redisConn.Set(ctx, sessionKey(record.ID), jsonData, repo.ttl).Err()
	if err != nil {
		return fmt.Errorf("error storing session: %w", err)
	}

	return nil
}

// LoadSession loads a session, it returns ErrSessionNotFound if it does not exist or expired.
func (repo *SessionRepository) LoadSession(ctx context.Context, id string) (models.SessionRecord, error) {
	redisConn := repo.services.Redis

	jsonData, err := redisConn.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.SessionRecord{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("error getting session: %w", err)
	}

	var record models.SessionRecord
	if err = json.Unmarshal(jsonData, &record); err != nil {
		return models.SessionRecord{}, fmt.Errorf("error unmarshaling session: %w", err)
	}

	return record, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (repo *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	redisConn := repo.services.Redis

	if err := redisConn.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	return nil
}

// ListSessionIDs returns the IDs of all stored sessions.
func (repo *SessionRepository) ListSessionIDs(ctx context.Context) ([]string, error) {
	redisConn := repo.services.Redis

	ids := make([]string, 0)

	iter := redisConn.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(sessionKeyPrefix):])
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error scanning sessions: %w", err)
	}

	return ids, nil
}
