package services

import (
	"context"
	"testing"
	"time"

	"studyflow/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockerInMemory(t *testing.T) {
	clock := testutils.NewClock(time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC))
	l := NewLocker(nil)
	l.now = clock.Now
	ctx := context.Background()

	release, err := l.Acquire(ctx, "chat:1", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "chat:1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	_, err = l.Acquire(ctx, "chat:2", time.Minute)
	assert.NoError(t, err, "keys lock independently")

	release()
	again, err := l.Acquire(ctx, "chat:1", time.Minute)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = l.Acquire(ctx, "chat:1", time.Minute)
	assert.NoError(t, err, "expired locks can be taken over")

	// A stale release must not drop the new holder's lock.
	again()
	_, err = l.Acquire(ctx, "chat:1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestRateLimiterInMemory(t *testing.T) {
	clock := testutils.NewClock(time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(nil, 2, time.Minute)
	rl.now = clock.Now
	ctx := context.Background()

	ok, _ := rl.Allow(ctx, "u1")
	assert.True(t, ok)
	clock.Advance(10 * time.Second)
	ok, _ = rl.Allow(ctx, "u1")
	assert.True(t, ok)

	ok, retry := rl.Allow(ctx, "u1")
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, retry)

	ok, _ = rl.Allow(ctx, "u2")
	assert.True(t, ok)

	clock.Advance(51 * time.Second)
	ok, _ = rl.Allow(ctx, "u1")
	assert.True(t, ok, "oldest hit left the window")

	unlimited := NewRateLimiter(nil, 0, time.Minute)
	for i := 0; i < 5; i++ {
		ok, _ = unlimited.Allow(ctx, "u1")
		assert.True(t, ok)
	}
}

func TestRedisBackedHelpers(t *testing.T) {
	client := testutils.TestRedis(t)
	ctx := context.Background()

	l := NewLocker(client)
	release, err := l.Acquire(ctx, "timer:u1", time.Minute)
	require.NoError(t, err)
	_, err = l.Acquire(ctx, "timer:u1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)
	release()
	_, err = l.Acquire(ctx, "timer:u1", time.Minute)
	assert.NoError(t, err)

	rl := NewRateLimiter(client, 1, time.Minute)
	ok, _ := rl.Allow(ctx, "u1")
	assert.True(t, ok)
	ok, retry := rl.Allow(ctx, "u1")
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))

	ts := NewTokenService("secret", "studyflow", time.Minute, time.Hour)
	pair, err := ts.IssuePair("u1", "s1")
	require.NoError(t, err)
	claims, err := ts.Parse(pair.AccessToken, AccessToken)
	require.NoError(t, err)
	bl := NewTokenBlacklist(client)
	require.NoError(t, bl.Revoke(ctx, claims))
	assert.True(t, bl.IsRevoked(ctx, claims.ID))

	cache := NewSessionCache(client)
	session, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, session)
}
