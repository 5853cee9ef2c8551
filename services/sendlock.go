package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("resource is locked")

// releaseScript deletes the lock only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// Locker hands out short-lived exclusive locks keyed by name. With a Redis
// client the lock is shared across instances; otherwise it is per process.
type Locker struct {
	client *redis.Client

	mu    sync.Mutex
	local map[string]time.Time
	now   func() time.Time
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{
		client: client,
		local:  make(map[string]time.Time),
		now:    time.Now,
	}
}

// Acquire takes the lock for ttl and returns a release func. It returns
// ErrLocked when another holder has it.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	key = "lock:" + key
	if l.client != nil {
		token := uuid.NewString()
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrLocked
		}
		return func() {
			releaseScript.Run(context.Background(), l.client, []string{key}, token)
		}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if exp, held := l.local[key]; held && now.Before(exp) {
		return nil, ErrLocked
	}
	exp := now.Add(ttl)
	l.local[key] = exp
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.local[key].Equal(exp) {
			delete(l.local, key)
		}
	}, nil
}
