package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/identity"
	"github.com/realty/backend/internal/domain/shared"
	"github.com/realty/backend/internal/infrastructure/auth"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	clerk      *auth.ClerkVerifier
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. The Clerk
// verifier is optional; pass nil to disable the SSO login path.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	clerk *auth.ClerkVerifier,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		clerk:      clerk,
		logger:     logger,
	}
}

// Register creates a client account and logs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.FullName, req.Password, identity.RoleClient)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.Update(req.FullName, req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Client registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return s.issueTokens(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.CanAuthenticate() {
		s.logger.Warn("Login for inactive account",
			zap.String("user_id", user.ID.String()),
			zap.String("status", string(user.Status)))
		if user.Status == identity.UserStatusLocked {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Contact support")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Don't fail the login over a bookkeeping write
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return s.issueTokens(user)
}

// LoginWithSSO exchanges a Clerk session token for a local token pair.
// The account must already exist; SSO does not provision users.
func (s *AuthService) LoginWithSSO(ctx context.Context, req SSOLoginRequest) (*TokenResponse, error) {
	if s.clerk == nil {
		return nil, shared.NewDomainError("SSO_DISABLED", "Single sign-on is not configured")
	}

	claims, err := s.clerk.Verify(req.Token)
	if err != nil {
		s.logger.Warn("SSO token rejected", zap.Error(err))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid session token")
	}
	if claims.Email == "" {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Session token carries no email")
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Email)
	if err != nil {
		s.logger.Warn("SSO login for unknown email", zap.String("email", claims.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "No account for this identity")
	}

	if !user.CanAuthenticate() {
		if user.Status == identity.UserStatusLocked {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Contact support")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in via SSO",
		zap.String("user_id", user.ID.String()),
		zap.String("subject", claims.Subject))

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
	if err != nil {
		s.logger.Error("Blacklist lookup failed", zap.Error(err))
	}
	if invalidated {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token has been revoked")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	if !user.CanAuthenticate() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	return s.issueTokens(user)
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		// Nothing to revoke for an invalid token
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return shared.NewDomainError("EXTERNAL_SERVICE", "Failed to revoke token")
	}

	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// LogoutAllSessions revokes every outstanding token for a user
func (s *AuthService) LogoutAllSessions(ctx context.Context, userID uuid.UUID) error {
	// Keep the invalidation marker as long as the longest-lived token
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), 168*time.Hour); err != nil {
		s.logger.Error("Failed to invalidate user sessions", zap.Error(err))
		return shared.NewDomainError("EXTERNAL_SERVICE", "Failed to revoke sessions")
	}
	return nil
}

// GetCurrentUser returns the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword changes the current user's password and revokes the
// user's other sessions
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(req.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	if err := s.LogoutAllSessions(ctx, userID); err != nil {
		s.logger.Warn("Password changed but session revocation failed", zap.Error(err))
	}

	s.logger.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) issueTokens(user *identity.User) (*TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}, nil
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case auth.ErrInvalidToken, auth.ErrInvalidTokenType, auth.ErrInvalidClaims:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Failed to validate token")
	}
}
