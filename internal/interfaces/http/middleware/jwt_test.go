package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-backend-test",
	})
}

func newAuthTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     GetJWTUserID(c),
			"session_key": GetSessionKey(c),
		})
	})
	return r
}

func doRequest(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	r := newAuthTestRouter(JWTAuthMiddleware(jwtService, nil, nil))

	t.Run("valid token passes", func(t *testing.T) {
		userID := uuid.New()
		pair, err := jwtService.GenerateTokenPair(userID, "priya")
		require.NoError(t, err)

		w := doRequest(r, map[string]string{"Authorization": "Bearer " + pair.AccessToken})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := doRequest(r, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		w := doRequest(r, map[string]string{"Authorization": "Basic abc"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := doRequest(r, map[string]string{"Authorization": "Bearer not-a-jwt"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token rejected on access route", func(t *testing.T) {
		pair, err := jwtService.GenerateTokenPair(uuid.New(), "priya")
		require.NoError(t, err)

		w := doRequest(r, map[string]string{"Authorization": "Bearer " + pair.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJWTAuthMiddlewareBlacklist(t *testing.T) {
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	r := newAuthTestRouter(JWTAuthMiddleware(jwtService, blacklist, nil))

	pair, err := jwtService.GenerateTokenPair(uuid.New(), "priya")
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

	w := doRequest(r, map[string]string{"Authorization": "Bearer " + pair.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestOptionalAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	r := newAuthTestRouter(OptionalAuthMiddleware(jwtService, nil, nil))

	t.Run("anonymous with session key passes", func(t *testing.T) {
		w := doRequest(r, map[string]string{SessionKeyHeader: "sess-abc"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "sess-abc")
	})

	t.Run("anonymous without session key passes", func(t *testing.T) {
		w := doRequest(r, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid token authenticates", func(t *testing.T) {
		userID := uuid.New()
		pair, err := jwtService.GenerateTokenPair(userID, "priya")
		require.NoError(t, err)

		w := doRequest(r, map[string]string{"Authorization": "Bearer " + pair.AccessToken})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("invalid token still rejected", func(t *testing.T) {
		w := doRequest(r, map[string]string{"Authorization": "Bearer junk"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
