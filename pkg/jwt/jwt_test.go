package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsync/skillsync-api/pkg/jwt"
)

const testSecret = "test-secret-that-is-long-enough-123"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := jwt.NewTokenManager(testSecret, "skillsync-test", 1)

	token, err := tm.GenerateToken("user-1", "jane@example.com", "Jane", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane", claims.Name)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "skillsync-test", claims.Issuer)
}

func TestTokenManager_ValidateToken_Garbage(t *testing.T) {
	tm := jwt.NewTokenManager(testSecret, "skillsync-test", 1)

	claims, err := tm.ValidateToken("not-a-token")
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestTokenManager_ValidateToken_WrongSecret(t *testing.T) {
	tm := jwt.NewTokenManager(testSecret, "skillsync-test", 1)
	other := jwt.NewTokenManager("another-secret-that-is-also-long-456", "skillsync-test", 1)

	token, err := tm.GenerateToken("user-1", "jane@example.com", "Jane", "user")
	require.NoError(t, err)

	claims, err := other.ValidateToken(token)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestTokenManager_ValidateToken_Expired(t *testing.T) {
	// Zero TTL issues an already-expired token
	tm := jwt.NewTokenManager(testSecret, "skillsync-test", 0)

	token, err := tm.GenerateToken("user-1", "jane@example.com", "Jane", "user")
	require.NoError(t, err)

	time.Sleep(time.Second)

	claims, err := tm.ValidateToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestTokenManager_GetExpirationTime(t *testing.T) {
	tm := jwt.NewTokenManager(testSecret, "skillsync-test", 168)
	assert.Equal(t, 168*time.Hour, tm.GetExpirationTime())
}
