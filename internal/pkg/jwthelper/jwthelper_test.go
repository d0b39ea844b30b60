package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	key := []byte("secret")

	token, err := GenerateToken(key, 42, "curl/8.0", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "curl/8.0", claims.UserAgent)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseRejects(t *testing.T) {
	key := []byte("secret")

	expired, err := GenerateToken(key, 1, "", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(key, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := GenerateToken([]byte("other"), 1, "", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(key, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(key, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
