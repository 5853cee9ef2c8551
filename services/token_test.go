package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenPairRoundTrip(t *testing.T) {
	ts := NewTokenService("secret", "studyflow", time.Hour, 24*time.Hour)
	pair, err := ts.IssuePair("u1", "s1")
	require.NoError(t, err)

	access, err := ts.Parse(pair.AccessToken, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", access.UserID)
	assert.Equal(t, "s1", access.SessionID)
	assert.NotEmpty(t, access.ID)

	refresh, err := ts.Parse(pair.RefreshToken, RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, access.ID, refresh.ID)

	_, err = ts.Parse(pair.RefreshToken, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTokenParseFailures(t *testing.T) {
	ts := NewTokenService("secret", "studyflow", time.Minute, time.Hour)
	pair, err := ts.IssuePair("u1", "s1")
	require.NoError(t, err)

	other := NewTokenService("other-secret", "studyflow", time.Minute, time.Hour)
	_, err = other.Parse(pair.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewTokenService("secret", "someone-else", time.Minute, time.Hour)
	_, err = wrongIssuer.Parse(pair.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ts.Parse("garbage", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	ts.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = ts.Parse(pair.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenBlacklistInMemory(t *testing.T) {
	ts := NewTokenService("secret", "studyflow", time.Minute, time.Hour)
	pair, err := ts.IssuePair("u1", "s1")
	require.NoError(t, err)
	claims, err := ts.Parse(pair.AccessToken, AccessToken)
	require.NoError(t, err)

	bl := NewTokenBlacklist(nil)
	ctx := context.Background()
	assert.False(t, bl.IsRevoked(ctx, claims.ID))
	require.NoError(t, bl.Revoke(ctx, claims))
	assert.True(t, bl.IsRevoked(ctx, claims.ID))

	bl.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.False(t, bl.IsRevoked(ctx, claims.ID), "entries lapse with the token")
}
