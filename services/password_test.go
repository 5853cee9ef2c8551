package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.Len(t, strings.Split(hash, "$"), 2)

	other, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts differ")

	assert.True(t, ComparePasswords(hash, "Secret123!"))
	assert.False(t, ComparePasswords(hash, "secret123!"))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("not-a-hash", "x")
	assert.ErrorIs(t, err, ErrInvalidHashFormat)
	assert.False(t, ComparePasswords("a$b$c", "x"))
}
