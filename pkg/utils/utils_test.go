package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("u1", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestToken_Rejects(t *testing.T) {
	good, err := GenerateToken("u1", "secret", time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(good, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateToken("u1", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired, "secret")
	assert.Error(t, err)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ValidateToken(anonymous, "secret")
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ValidateToken(unsigned, "secret")
	assert.Error(t, err)
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("user-42"))
	assert.True(t, ValidIdentifier("session:abc@example.com"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier(" padded"))
	assert.False(t, ValidIdentifier("line\nbreak"))
	assert.False(t, ValidIdentifier(strings.Repeat("x", MaxIdentifierLength+1)))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
	assert.Equal(t, "ab", TruncateString("ab", 3))
}
