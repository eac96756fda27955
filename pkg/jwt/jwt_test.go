package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, 42, "openid-1", TypeAccess, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(secret, TypeAccess, token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "openid-1", claims.OpenID)
	assert.False(t, ShouldRotate(claims, time.Second))

	_, err = ParseToken(secret, TypeAdmin, token)
	assert.ErrorIs(t, err, ErrTokenType)

	_, err = ParseToken([]byte("other"), TypeAccess, token)
	assert.Error(t, err)
}
