package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/identity"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestAuthService(repo identity.UserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-jwt-signing-32ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-backend-test",
	})
	return NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), nil)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and issues tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(repo)

		repo.On("ExistsByUsername", ctx, "alice").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := service.Signup(ctx, SignupRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret-password",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", resp.User.Username)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)
	})

	t.Run("taken username is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(repo)

		repo.On("ExistsByUsername", ctx, "alice").Return(true, nil)

		_, err := service.Signup(ctx, SignupRequest{
			Username: "alice",
			Password: "s3cret-password",
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "USERNAME_TAKEN", derr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(repo)

		repo.On("ExistsByUsername", ctx, "alice").Return(false, nil)

		_, err := service.Signup(ctx, SignupRequest{
			Username: "alice",
			Password: "short",
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	makeUser := func(t *testing.T) *identity.User {
		t.Helper()
		user, err := identity.NewUser("alice", "alice@example.com", "s3cret-password")
		require.NoError(t, err)
		return user
	}

	t.Run("valid credentials issue tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(repo)

		user := makeUser(t)
		repo.On("FindByUsername", ctx, "alice").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		resp, err := service.Login(ctx, LoginRequest{Username: "alice", Password: "s3cret-password"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(repo)

		repo.On("FindByUsername", ctx, "alice").Return(makeUser(t), nil)

		_, err := service.Login(ctx, LoginRequest{Username: "alice", Password: "wrong-password"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CREDENTIALS", derr.Code)
	})

	t.Run("unknown user gets the same error as a bad password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(repo)

		repo.On("FindByUsername", ctx, "mallory").Return(nil, shared.ErrNotFound)

		_, err := service.Login(ctx, LoginRequest{Username: "mallory", Password: "whatever-pass"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CREDENTIALS", derr.Code)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestAuthService(repo)

		user := makeUser(t)
		user.Deactivate()
		repo.On("FindByUsername", ctx, "alice").Return(user, nil)

		_, err := service.Login(ctx, LoginRequest{Username: "alice", Password: "s3cret-password"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", derr.Code)
	})
}

func TestAuthService_LogoutAndRefresh(t *testing.T) {
	ctx := context.Background()

	repo := new(MockUserRepository)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-jwt-signing-32ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-backend-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := NewAuthService(repo, jwtService, blacklist, nil)

	user, err := identity.NewUser("alice", "alice@example.com", "s3cret-password")
	require.NoError(t, err)

	pair, err := jwtService.GenerateTokenPair(user.ID, user.Username)
	require.NoError(t, err)

	t.Run("logout blacklists the access token jti", func(t *testing.T) {
		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		require.NoError(t, service.Logout(ctx, claims))

		blacklisted, err := blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("refresh returns a fresh pair", func(t *testing.T) {
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		resp, err := service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("revoked refresh token is rejected", func(t *testing.T) {
		claims, err := jwtService.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(ctx, claims.ID, time.Hour))

		_, err = service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "TOKEN_REVOKED", derr.Code)
	})

	t.Run("garbage refresh token is rejected", func(t *testing.T) {
		_, err := service.Refresh(ctx, RefreshRequest{RefreshToken: "garbage"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "TOKEN_INVALID", derr.Code)
	})
}
