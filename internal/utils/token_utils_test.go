package utils_test

import (
	"testing"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	secret := "test-secret"
	token, err := utils.GenerateJWT("user-123", secret, time.Hour, "tca_backend")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ParseAndValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "tca_backend", claims.Issuer)
}

func TestParseAndValidateJWT_WrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT("user-123", "right-secret", time.Hour, "tca_backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	token, err := utils.GenerateJWT("user-123", "secret", -time.Minute, "tca_backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestHashToken_Deterministic(t *testing.T) {
	first := utils.HashToken("some-raw-token")
	second := utils.HashToken("some-raw-token")
	other := utils.HashToken("another-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestGenerateSecureToken_Distinct(t *testing.T) {
	first, err := utils.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := utils.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.True(t, utils.CheckPasswordHash("correct-horse-battery", hash))
	assert.False(t, utils.CheckPasswordHash("wrong-password", hash))
}
