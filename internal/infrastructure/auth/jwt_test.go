package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() JWTConfig {
	return JWTConfig{
		SecretKey:     "test-secret-key",
		Issuer:        "test-issuer",
		TokenTTL:      7 * 24 * time.Hour,
		RememberMeTTL: 30 * 24 * time.Hour,
	}
}

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateToken("user-123", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.False(t, claims.RememberMe)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt, time.Minute)
}

func TestJWTManager_RememberMeExtendsExpiry(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateToken("user-123", true)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.RememberMe)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt, time.Minute)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager(testConfig())
	issued := time.Now().Add(-8 * 24 * time.Hour)
	manager.now = func() time.Time { return issued }

	token, err := manager.GenerateToken("user-123", false)
	require.NoError(t, err)

	manager.now = time.Now
	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, manager.VerifyToken(token))
}

func TestJWTManager_WrongSecretKey(t *testing.T) {
	other := testConfig()
	other.SecretKey = "another-secret"

	token, err := NewJWTManager(other).GenerateToken("user-123", false)
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig()).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Nil(t, NewJWTManager(testConfig()).VerifyToken(token))
}

func TestJWTManager_VerifyToken(t *testing.T) {
	manager := NewJWTManager(testConfig())

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "random string", token: "not.a.valid.token"},
		{name: "malformed jwt", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, manager.VerifyToken(tt.token))
		})
	}

	token, err := manager.GenerateToken("user-42", false)
	require.NoError(t, err)
	principal := manager.VerifyToken(token)
	require.NotNil(t, principal)
	assert.Equal(t, "user-42", principal.UserID)
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractToken("Bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractToken(""))
	assert.Equal(t, "", ExtractToken("Basic dXNlcjpwYXNz"))
	assert.Equal(t, "", ExtractToken("bearer abc"))
	assert.Equal(t, "", ExtractToken("Bearer "))
}

func TestPasswordManager(t *testing.T) {
	manager := NewPasswordManager(4)

	hash, err := manager.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, manager.VerifyPassword(hash, "correct horse"))
	assert.False(t, manager.VerifyPassword(hash, "wrong horse"))
}
