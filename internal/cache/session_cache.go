package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"shopcheck/internal/model"
)

// SessionCache handles Redis storage for in-progress checklist runs.
// One session per worker: the key is the worker's identity, so a worker
// starting a new run replaces any stale one.
type SessionCache interface {
	Set(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, workerID string) (*model.Session, error)
	Delete(ctx context.Context, workerID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func sessionKey(workerID string) string {
	return "session:" + workerID
}

func (c *sessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(session.WorkerID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, workerID string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(workerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, workerID string) error {
	return c.client.Del(ctx, sessionKey(workerID)).Err()
}
