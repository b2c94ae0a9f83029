package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestNewService(t *testing.T) {
	secretKey := "test-secret-key"
	service := NewService(secretKey)

	assert.NotNil(t, service)
	assert.Equal(t, []byte(secretKey), service.secretKey)
}

func TestGenerateToken(t *testing.T) {
	service := NewService("test-secret-key")
	userID := "user-123"
	role := "member"

	token, err := service.GenerateToken(userID, role)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, len(token), 0)
}

func TestValidateToken(t *testing.T) {
	service := NewService("test-secret-key")
	userID := "user-123"
	role := "member"

	// Generate token
	token, err := service.GenerateToken(userID, role)
	assert.NoError(t, err)

	// Validate token
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, role, claims.Role)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	service := NewService("test-secret-key")

	// Invalid token format
	_, err := service.ValidateToken("invalid-token")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service1 := NewService("secret-key-1")
	service2 := NewService("secret-key-2")

	userID := "user-123"
	role := "member"

	// Generate token with service1
	token, err := service1.GenerateToken(userID, role)
	assert.NoError(t, err)

	// Try to validate with service2 (wrong secret)
	_, err = service2.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_ExpiresAtSet(t *testing.T) {
	service := NewService("test-secret-key")
	userID := "user-123"
	role := "member"

	token, err := service.GenerateToken(userID, role)
	assert.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims.ExpiresAt)
	assert.True(t, time.Now().Before(claims.ExpiresAt.Time))
}

func TestValidateToken_EmptyToken(t *testing.T) {
	service := NewService("test-secret-key")

	_, err := service.ValidateToken("")
	assert.Error(t, err)
}

func TestGenerateAndValidateToken_RoundTrip(t *testing.T) {
	service := NewService("test-secret-key")
	userID := "user-456"
	role := "admin"

	// Generate
	token, err := service.GenerateToken(userID, role)
	assert.NoError(t, err)

	// Validate
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, role, claims.Role)
}

func TestValidateToken_UnexpectedSigningMethod(t *testing.T) {
	service := NewService("test-secret-key")

	// alg=none tokens must be rejected
	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{UserID: "user-123", Role: "admin"})
	token, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenWithTTL(t *testing.T) {
	service := NewService("test-secret-key")

	token, err := service.GenerateTokenWithTTL("user-123", "member", 30*24*time.Hour)
	assert.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now().Add(29*24*time.Hour)))
}

func TestGenerateToken_UniqueIDs(t *testing.T) {
	service := NewService("test-secret-key")

	t1, _ := service.GenerateToken("user-123", "member")
	t2, _ := service.GenerateToken("user-123", "member")
	c1, _ := service.ValidateToken(t1)
	c2, _ := service.ValidateToken(t2)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestGenerateToken_EmptyValues(t *testing.T) {
	service := NewService("test-secret-key")

	// Generate with empty values should still work
	token, err := service.GenerateToken("", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "", claims.UserID)
	assert.Equal(t, "", claims.Role)
}
