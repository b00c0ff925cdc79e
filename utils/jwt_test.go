package utils_test

import (
	"testing"

	"onlineparking/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	utils.JWTSecret = []byte("test-secret")

	signed, err := utils.GenerateToken(42, true)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return utils.JWTSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, claims["user_id"])
	assert.Equal(t, true, claims["is_admin"])
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	utils.JWTSecret = []byte("test-secret")

	signed, err := utils.GenerateToken(7, false)
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("another-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)

	assert.True(t, utils.CheckPasswordHash("secret-password", hash))
	assert.False(t, utils.CheckPasswordHash("wrong-password", hash))
}
