package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-jwt-signing-32ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-backend-test",
	})
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	service := newTestJWTService()
	userID := uuid.New()

	pair, err := service.GenerateTokenPair(userID, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	service := newTestJWTService()
	userID := uuid.New()

	pair, err := service.GenerateTokenPair(userID, "alice")
	require.NoError(t, err)

	t.Run("valid token round-trips claims", func(t *testing.T) {
		claims, err := service.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.NotEmpty(t, claims.ID)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := service.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "a-completely-different-secret-key-32",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "shop-backend-test",
		})
		otherPair, err := other.GenerateTokenPair(userID, "alice")
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(otherPair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_ExpiredToken(t *testing.T) {
	service := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-jwt-signing-32ch",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-backend-test",
	})

	pair, err := service.GenerateTokenPair(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	service := newTestJWTService()
	userID := uuid.New()

	pair, err := service.GenerateTokenPair(userID, "alice")
	require.NoError(t, err)

	fresh, err := service.RefreshTokenPair(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, err := service.RefreshTokenPair(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	service := newTestJWTService()

	pair, err := service.GenerateTokenPair(uuid.New(), "alice")
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}
