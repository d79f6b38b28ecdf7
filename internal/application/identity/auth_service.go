package identity

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/infrastructure/auth"
	"github.com/campusmarket/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles registration, authentication, and the single-use
// token flows (email verification, password reset)
type AuthService struct {
	userRepo   identity.UserRepository
	campusRepo identity.CampusRepository
	tokenRepo  identity.AuthTokenRepository
	jwtService *auth.JWTService
	hasher     *auth.PasswordHasher
	blacklist  auth.TokenBlacklist
	eventBus   shared.EventPublisher
	tokens     config.TokensConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	campusRepo identity.CampusRepository,
	tokenRepo identity.AuthTokenRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	blacklist auth.TokenBlacklist,
	eventBus shared.EventPublisher,
	tokens config.TokensConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		campusRepo: campusRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		hasher:     hasher,
		blacklist:  blacklist,
		eventBus:   eventBus,
		tokens:     tokens,
		logger:     logger,
	}
}

// RegisterInput contains input for user registration
type RegisterInput struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	StudentID string    `json:"student_id"`
	CampusID  uuid.UUID `json:"campus_id"`
}

// RegisterResult contains the created user and the email verification
// token to embed in the verification link
type RegisterResult struct {
	User              *UserDTO `json:"user"`
	VerificationToken string   `json:"-"`
}

// Register creates a new user account on a campus. The email must belong
// to the campus's domain.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	s.logger.Info("Registering user",
		zap.String("email", input.Email),
		zap.String("campus_id", input.CampusID.String()))

	campus, err := s.campusRepo.FindByID(ctx, input.CampusID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CAMPUS_NOT_FOUND", "Campus not found")
		}
		s.logger.Error("Failed to find campus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find campus")
	}
	if !campus.IsActive {
		return nil, shared.NewDomainError("CAMPUS_INACTIVE", "Campus is not accepting registrations")
	}
	if !campus.MatchesEmail(input.Email) {
		return nil, shared.NewDomainError("EMAIL_DOMAIN_MISMATCH",
			"Email must belong to the campus domain @"+campus.EmailDomain)
	}

	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "An account with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if _, err := s.userRepo.FindByStudentID(ctx, input.StudentID); err == nil {
		return nil, shared.NewDomainError("STUDENT_ID_EXISTS", "An account with this student ID already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check student ID", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check student ID availability")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, shared.NewDomainError("INVALID_PASSWORD", "Password exceeds maximum length")
		}
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to process password")
	}

	user, err := identity.NewUser(input.Email, hash, input.FirstName, input.LastName, input.StudentID, input.CampusID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_EXISTS", "An account with this email already exists")
		}
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	verificationToken, err := s.issueToken(ctx, user.ID, identity.TokenTypeEmailVerification)
	if err != nil {
		// Account exists; verification can be re-requested later
		s.logger.Error("Failed to issue verification token", zap.Error(err))
	}

	s.publishEvents(ctx, user)

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("campus_id", campus.ID.String()))

	return &RegisterResult{User: toUserDTO(user), VerificationToken: verificationToken}, nil
}

// LoginInput contains login credentials
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult contains the authenticated user and a token pair
type LoginResult struct {
	User   *UserDTO        `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// Login authenticates a user and issues a JWT pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to authenticate")
	}

	if err := s.hasher.Verify(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("Failed login attempt", zap.String("user_id", user.ID.String()))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		s.logger.Error("Failed to verify password", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to authenticate")
	}

	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:     user.ID,
		CampusID:   user.CampusID,
		Email:      user.Email,
		IsVerified: user.IsVerified,
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate tokens")
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResult{User: toUserDTO(user), Tokens: tokens}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
// The presented refresh token is revoked so it cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
	}

	if revoked, err := s.isRevoked(ctx, claims); err != nil {
		s.logger.Error("Failed to check token revocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh tokens")
	} else if revoked {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token has been revoked")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh tokens")
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:     user.ID,
		CampusID:   user.CampusID,
		Email:      user.Email,
		IsVerified: user.IsVerified,
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate tokens")
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
	}

	return tokens, nil
}

// Logout revokes the presented tokens for their remaining lifetimes
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwtService.ValidateAccessToken(accessToken); err == nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke access token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
		}
	}
	if refreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(refreshToken); err == nil {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				s.logger.Error("Failed to revoke refresh token", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
			}
		}
	}
	return nil
}

// VerifyEmail consumes an email verification token and marks the user verified
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*UserDTO, error) {
	authToken, err := s.tokenRepo.FindByToken(ctx, token, identity.TokenTypeEmailVerification)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_TOKEN", "Verification token is invalid")
		}
		s.logger.Error("Failed to find verification token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}

	if err := authToken.Consume(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, authToken.UserID)
	if err != nil {
		s.logger.Error("Failed to find user for token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}
	if err := user.MarkVerified(); err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Update(ctx, authToken); err != nil {
		s.logger.Error("Failed to consume verification token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}

	s.publishEvents(ctx, user)

	s.logger.Info("Email verified", zap.String("user_id", user.ID.String()))

	return toUserDTO(user), nil
}

// RequestEmailVerification issues a fresh verification token for an
// unverified user, replacing any outstanding one
func (s *AuthService) RequestEmailVerification(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to issue verification token")
	}
	if user.IsVerified {
		return "", shared.NewDomainError("ALREADY_VERIFIED", "User is already verified")
	}

	if err := s.tokenRepo.DeleteByUser(ctx, user.ID, identity.TokenTypeEmailVerification); err != nil {
		s.logger.Error("Failed to delete outstanding verification tokens", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to issue verification token")
	}

	token, err := s.issueToken(ctx, user.ID, identity.TokenTypeEmailVerification)
	if err != nil {
		s.logger.Error("Failed to issue verification token", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to issue verification token")
	}
	return token, nil
}

// RequestPasswordReset issues a password reset token for the given email.
// Unknown emails succeed with an empty token so callers cannot probe for
// registered addresses.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return "", nil
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to request password reset")
	}

	if err := s.tokenRepo.DeleteByUser(ctx, user.ID, identity.TokenTypePasswordReset); err != nil {
		s.logger.Error("Failed to delete outstanding reset tokens", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to request password reset")
	}

	token, err := s.issueToken(ctx, user.ID, identity.TokenTypePasswordReset)
	if err != nil {
		s.logger.Error("Failed to issue reset token", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to request password reset")
	}

	s.logger.Info("Password reset requested", zap.String("user_id", user.ID.String()))
	return token, nil
}

// ResetPassword consumes a reset token and replaces the user's password.
// All outstanding sessions are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	authToken, err := s.tokenRepo.FindByToken(ctx, token, identity.TokenTypePasswordReset)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_TOKEN", "Reset token is invalid")
		}
		s.logger.Error("Failed to find reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	if err := authToken.Consume(); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, authToken.UserID)
	if err != nil {
		s.logger.Error("Failed to find user for token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return shared.NewDomainError("INVALID_PASSWORD", "Password exceeds maximum length")
		}
		s.logger.Error("Failed to hash password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}
	if err := user.ChangePassword(hash); err != nil {
		return err
	}

	if err := s.tokenRepo.Update(ctx, authToken); err != nil {
		s.logger.Error("Failed to consume reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), ttl); err != nil {
		s.logger.Warn("Failed to revoke existing sessions", zap.Error(err))
	}

	s.logger.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ChangePassword replaces the password for an authenticated user
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	if err := s.hasher.Verify(user.PasswordHash, oldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
		}
		s.logger.Error("Failed to verify password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return shared.NewDomainError("INVALID_PASSWORD", "Password exceeds maximum length")
		}
		s.logger.Error("Failed to hash password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}
	if err := user.ChangePassword(hash); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// issueToken generates and persists a single-use auth token
func (s *AuthService) issueToken(ctx context.Context, userID uuid.UUID, tokenType identity.TokenType) (string, error) {
	raw, err := auth.GenerateSecureToken()
	if err != nil {
		return "", err
	}

	ttl := s.tokens.EmailVerificationTTL
	if tokenType == identity.TokenTypePasswordReset {
		ttl = s.tokens.PasswordResetTTL
	}

	authToken, err := identity.NewAuthToken(userID, raw, tokenType, ttl)
	if err != nil {
		return "", err
	}
	if err := s.tokenRepo.Save(ctx, authToken); err != nil {
		return "", err
	}
	return raw, nil
}

// isRevoked checks both the per-token and the per-user revocation entries
func (s *AuthService) isRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return false, err
	}
	if blacklisted {
		return true, nil
	}
	return s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
}

// publishEvents publishes and clears the aggregate's pending domain events.
// Publish failures are logged; the committed state change stands.
func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	user.ClearDomainEvents()
}
