package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("unit-secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken("staff-1", "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.StaffID)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("unit-secret", time.Hour)
	other := NewTokenManager("different-secret", time.Hour)

	token, _, err := tm.GenerateToken("staff-1", "sess-1")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("unit-secret", time.Nanosecond)

	token, _, err := tm.GenerateToken("staff-1", "sess-1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("unit-secret", time.Hour)

	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, ComparePassword(hash, "secret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
