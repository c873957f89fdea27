package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/identity"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/infrastructure/auth"
)

// AuthService handles signup, login and logout
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Signup registers a new account and logs it in
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*LoginResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already taken")
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return s.issueTokens(ctx, user)
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Warn("login for unknown username", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.IsActive() {
		s.logger.Warn("login for deactivated account", zap.String("username", req.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("invalid password attempt", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds, the timestamp is advisory
		s.logger.Error("failed to record login time", zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a fresh pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		switch err {
		case auth.ErrExpiredToken:
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is no longer active")
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	resp := toTokenResponse(pair)
	return &resp, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// CurrentUser returns the authenticated user's profile
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) issueTokens(_ context.Context, user *identity.User) (*LoginResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return &LoginResponse{
		Tokens: toTokenResponse(pair),
		User:   ToUserResponse(user),
	}, nil
}

func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
