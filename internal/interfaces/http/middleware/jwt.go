package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// SessionKeyHeader carries the guest cart session key. Guests mint their
// own key (any opaque string); it only ever scopes their cart.
const SessionKeyHeader = "X-Session-Key"

// SessionKeyContextKey is the gin context key for the guest session key
const SessionKeyContextKey = "session_key"

// JWTAuthMiddleware rejects requests without a valid access token
func JWTAuthMiddleware(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		claims, err := authenticate(c, jwtService, blacklist)
		if err != nil {
			abortUnauthorized(c, logger, err)
			return
		}
		if claims == nil {
			abortUnauthorized(c, logger, auth.ErrInvalidToken)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware authenticates when a token is present but lets
// anonymous requests through, capturing the guest session key instead.
// A token that is present but invalid is still rejected; silently
// downgrading an expired login to a guest would split the user's cart.
func OptionalAuthMiddleware(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if c.GetHeader(AuthHeaderKey) == "" {
			if key := c.GetHeader(SessionKeyHeader); key != "" {
				c.Set(SessionKeyContextKey, key)
			}
			c.Next()
			return
		}

		claims, err := authenticate(c, jwtService, blacklist)
		if err != nil {
			abortUnauthorized(c, logger, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) (*auth.Claims, error) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" {
		return nil, auth.ErrInvalidToken
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return nil, auth.ErrInvalidToken
	}
	tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
	if tokenString == "" {
		return nil, auth.ErrInvalidToken
	}

	claims, err := jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	if blacklist != nil && claims.ID != "" {
		revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			// Redis being down must not lock every user out.
			return claims, nil
		}
		if revoked {
			return nil, auth.ErrTokenBlacklisted
		}
	}

	return claims, nil
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTUsernameKey, claims.Username)
}

func abortUnauthorized(c *gin.Context, logger *zap.Logger, err error) {
	code := "TOKEN_INVALID"
	message := "Invalid or missing token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = "TOKEN_EXPIRED"
		message = "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code = "TOKEN_REVOKED"
		message = "Token has been revoked"
	}

	logger.Debug("authentication rejected",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetJWTClaims retrieves JWT claims from gin.Context, nil when anonymous
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID string from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetSessionKey retrieves the guest session key from context
func GetSessionKey(c *gin.Context) string {
	return c.GetString(SessionKeyContextKey)
}
