package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studyflow/model"

	"github.com/redis/go-redis/v9"
)

const sessionCacheTTL = 5 * time.Minute

// SessionCache keeps recently verified auth sessions in Redis so the auth
// middleware does not hit Mongo on every request. A nil client disables it.
type SessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (sc *SessionCache) Enabled() bool {
	return sc != nil && sc.client != nil
}

func (sc *SessionCache) Set(ctx context.Context, session *model.AuthSession) error {
	if !sc.Enabled() {
		return nil
	}
	if session == nil {
		return errors.New("cannot cache nil session")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return sc.client.Set(ctx, sessionKey(session.SessionID), data, sessionCacheTTL).Err()
}

// Get returns (nil, nil) on a cache miss.
func (sc *SessionCache) Get(ctx context.Context, sessionID string) (*model.AuthSession, error) {
	if !sc.Enabled() {
		return nil, nil
	}
	data, err := sc.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	var session model.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (sc *SessionCache) Delete(ctx context.Context, sessionIDs ...string) error {
	if !sc.Enabled() || len(sessionIDs) == 0 {
		return nil
	}
	keys := make([]string, len(sessionIDs))
	for i, id := range sessionIDs {
		keys[i] = sessionKey(id)
	}
	return sc.client.Del(ctx, keys...).Err()
}
