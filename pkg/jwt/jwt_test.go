package jwt

import (
	"testing"
	"time"

	"go-disaster-management/config"
	"go-disaster-management/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiry time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		SessionExpiry: expiry,
	})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	service := newTestService(time.Hour)
	userID := uuid.New()

	token, tokenID, err := service.GenerateSessionToken(userID, "user@example.com", entity.RoleIDAuthority)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, entity.RoleIDAuthority, claims.RoleID)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := newTestService(-time.Minute)

	token, _, err := service.GenerateSessionToken(uuid.New(), "user@example.com", entity.RoleIDUser)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Hour).GenerateSessionToken(uuid.New(), "user@example.com", entity.RoleIDUser)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "different-secret", SessionExpiry: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := newTestService(time.Hour)
	_, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestTokenIDsAreUnique(t *testing.T) {
	service := newTestService(time.Hour)
	userID := uuid.New()

	_, first, err := service.GenerateSessionToken(userID, "user@example.com", entity.RoleIDUser)
	require.NoError(t, err)
	_, second, err := service.GenerateSessionToken(userID, "user@example.com", entity.RoleIDUser)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
