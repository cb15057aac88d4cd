package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	secret string
	ttl    int64
}

func (c testConfig) JWTSecret() string { return c.secret }
func (c testConfig) TokenTTL() int64   { return c.ttl }

func Test_OnGenerateToken_ShouldRoundTrip(t *testing.T) {
	auth := NewAuthService(testConfig{secret: "s3cr3t", ttl: 60})

	token, err := auth.GenerateToken(42)
	require.NoError(t, err)

	clientID, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), clientID)
}

func Test_OnValidateToken_ShouldRejectWrongSecret(t *testing.T) {
	token, err := NewAuthService(testConfig{secret: "one", ttl: 60}).GenerateToken(42)
	require.NoError(t, err)

	_, err = NewAuthService(testConfig{secret: "two", ttl: 60}).ValidateToken(token)
	assert.Error(t, err)
}

func Test_OnValidateToken_ShouldRejectExpiredToken(t *testing.T) {
	auth := NewAuthService(testConfig{secret: "s3cr3t", ttl: -1})

	token, err := auth.GenerateToken(42)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func Test_OnValidateToken_ShouldRejectGarbage(t *testing.T) {
	auth := NewAuthService(testConfig{secret: "s3cr3t", ttl: 60})

	_, err := auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}
