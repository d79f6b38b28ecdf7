package identity

import (
	"context"
	"testing"
	"time"

	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/infrastructure/auth"
	"github.com/campusmarket/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByStudentID(ctx context.Context, studentID string) (*identity.User, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByCampus(ctx context.Context, campusID uuid.UUID, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	args := m.Called(ctx, campusID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.User]), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.User]), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCampusRepository is a mock implementation of identity.CampusRepository
type MockCampusRepository struct {
	mock.Mock
}

func (m *MockCampusRepository) Save(ctx context.Context, campus *identity.Campus) error {
	args := m.Called(ctx, campus)
	return args.Error(0)
}

func (m *MockCampusRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Campus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Campus), args.Error(1)
}

func (m *MockCampusRepository) FindByEmailDomain(ctx context.Context, domain string) (*identity.Campus, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Campus), args.Error(1)
}

func (m *MockCampusRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.Campus], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.Campus]), args.Error(1)
}

func (m *MockCampusRepository) Update(ctx context.Context, campus *identity.Campus) error {
	args := m.Called(ctx, campus)
	return args.Error(0)
}

func (m *MockCampusRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuthTokenRepository is a mock implementation of identity.AuthTokenRepository
type MockAuthTokenRepository struct {
	mock.Mock
}

func (m *MockAuthTokenRepository) Save(ctx context.Context, token *identity.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthTokenRepository) FindByToken(ctx context.Context, token string, tokenType identity.TokenType) (*identity.AuthToken, error) {
	args := m.Called(ctx, token, tokenType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AuthToken), args.Error(1)
}

func (m *MockAuthTokenRepository) Update(ctx context.Context, token *identity.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID, tokenType identity.TokenType) error {
	args := m.Called(ctx, userID, tokenType)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type authServiceFixture struct {
	service    *AuthService
	userRepo   *MockUserRepository
	campusRepo *MockCampusRepository
	tokenRepo  *MockAuthTokenRepository
	jwtService *auth.JWTService
	blacklist  *auth.InMemoryTokenBlacklist
	eventBus   *MockEventPublisher
}

func newAuthServiceFixture() *authServiceFixture {
	userRepo := new(MockUserRepository)
	campusRepo := new(MockCampusRepository)
	tokenRepo := new(MockAuthTokenRepository)
	eventBus := new(MockEventPublisher)
	blacklist := auth.NewInMemoryTokenBlacklist()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-with-enough-length",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "campusmarket-test",
	})
	tokens := config.TokensConfig{
		PasswordResetTTL:     time.Hour,
		EmailVerificationTTL: 24 * time.Hour,
	}

	service := NewAuthService(userRepo, campusRepo, tokenRepo, jwtService,
		auth.NewPasswordHasher(), blacklist, eventBus, tokens, zap.NewNop())

	return &authServiceFixture{
		service:    service,
		userRepo:   userRepo,
		campusRepo: campusRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		eventBus:   eventBus,
	}
}

func newTestCampus(t *testing.T) *identity.Campus {
	t.Helper()
	campus, err := identity.NewCampus("State University", "Springfield", "state.edu")
	require.NoError(t, err)
	return campus
}

func newTestUser(t *testing.T, campusID uuid.UUID, password string) *identity.User {
	t.Helper()
	hash, err := auth.NewPasswordHasher().Hash(password)
	require.NoError(t, err)
	user, err := identity.NewUser("jane.doe@state.edu", hash, "Jane", "Doe", "S123456", campusID)
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	input := RegisterInput{
		Email:     "jane.doe@state.edu",
		Password:  "correct-horse-battery",
		FirstName: "Jane",
		LastName:  "Doe",
		StudentID: "S123456",
	}

	t.Run("creates user and verification token", func(t *testing.T) {
		f := newAuthServiceFixture()
		campus := newTestCampus(t)
		in := input
		in.CampusID = campus.ID

		f.campusRepo.On("FindByID", ctx, campus.ID).Return(campus, nil)
		f.userRepo.On("FindByEmail", ctx, in.Email).Return(nil, shared.ErrNotFound)
		f.userRepo.On("FindByStudentID", ctx, in.StudentID).Return(nil, shared.ErrNotFound)
		f.userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		f.tokenRepo.On("Save", ctx, mock.AnythingOfType("*identity.AuthToken")).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := f.service.Register(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "jane.doe@state.edu", result.User.Email)
		assert.Equal(t, campus.ID, result.User.CampusID)
		assert.False(t, result.User.IsVerified)
		assert.NotEmpty(t, result.VerificationToken)

		savedToken := f.tokenRepo.Calls[0].Arguments.Get(1).(*identity.AuthToken)
		assert.Equal(t, identity.TokenTypeEmailVerification, savedToken.TokenType)
		assert.Equal(t, result.VerificationToken, savedToken.Token)

		f.userRepo.AssertExpectations(t)
		f.eventBus.AssertExpectations(t)
	})

	t.Run("rejects email outside the campus domain", func(t *testing.T) {
		f := newAuthServiceFixture()
		campus := newTestCampus(t)
		in := input
		in.CampusID = campus.ID
		in.Email = "jane.doe@other.edu"

		f.campusRepo.On("FindByID", ctx, campus.ID).Return(campus, nil)

		_, err := f.service.Register(ctx, in)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_DOMAIN_MISMATCH", domainErr.Code)
		f.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects inactive campus", func(t *testing.T) {
		f := newAuthServiceFixture()
		campus := newTestCampus(t)
		require.NoError(t, campus.Deactivate())
		in := input
		in.CampusID = campus.ID

		f.campusRepo.On("FindByID", ctx, campus.ID).Return(campus, nil)

		_, err := f.service.Register(ctx, in)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CAMPUS_INACTIVE", domainErr.Code)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		f := newAuthServiceFixture()
		campus := newTestCampus(t)
		in := input
		in.CampusID = campus.ID
		existing := newTestUser(t, campus.ID, "pw-existing-123")

		f.campusRepo.On("FindByID", ctx, campus.ID).Return(campus, nil)
		f.userRepo.On("FindByEmail", ctx, in.Email).Return(existing, nil)

		_, err := f.service.Register(ctx, in)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_EXISTS", domainErr.Code)
	})

	t.Run("rejects duplicate student ID", func(t *testing.T) {
		f := newAuthServiceFixture()
		campus := newTestCampus(t)
		in := input
		in.CampusID = campus.ID
		existing := newTestUser(t, campus.ID, "pw-existing-123")

		f.campusRepo.On("FindByID", ctx, campus.ID).Return(campus, nil)
		f.userRepo.On("FindByEmail", ctx, in.Email).Return(nil, shared.ErrNotFound)
		f.userRepo.On("FindByStudentID", ctx, in.StudentID).Return(existing, nil)

		_, err := f.service.Register(ctx, in)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STUDENT_ID_EXISTS", domainErr.Code)
	})

	t.Run("unknown campus", func(t *testing.T) {
		f := newAuthServiceFixture()
		in := input
		in.CampusID = uuid.New()

		f.campusRepo.On("FindByID", ctx, in.CampusID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Register(ctx, in)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CAMPUS_NOT_FOUND", domainErr.Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns token pair for valid credentials", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")

		f.userRepo.On("FindByEmail", ctx, "jane.doe@state.edu").Return(user, nil)

		result, err := f.service.Login(ctx, LoginInput{
			Email:    "jane.doe@state.edu",
			Password: "correct-horse-battery",
		})

		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.NotEmpty(t, result.Tokens.RefreshToken)
		assert.Equal(t, "Bearer", result.Tokens.TokenType)

		claims, err := f.jwtService.ValidateAccessToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, user.CampusID.String(), claims.CampusID)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")

		f.userRepo.On("FindByEmail", ctx, "jane.doe@state.edu").Return(user, nil)

		_, err := f.service.Login(ctx, LoginInput{
			Email:    "jane.doe@state.edu",
			Password: "wrong-password",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("unknown email maps to the same error as a wrong password", func(t *testing.T) {
		f := newAuthServiceFixture()

		f.userRepo.On("FindByEmail", ctx, "nobody@state.edu").Return(nil, shared.ErrNotFound)

		_, err := f.service.Login(ctx, LoginInput{
			Email:    "nobody@state.edu",
			Password: "whatever",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("deactivated account", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")
		require.NoError(t, user.Deactivate())

		f.userRepo.On("FindByEmail", ctx, "jane.doe@state.edu").Return(user, nil)

		_, err := f.service.Login(ctx, LoginInput{
			Email:    "jane.doe@state.edu",
			Password: "correct-horse-battery",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, f *authServiceFixture, user *identity.User) *auth.TokenPair {
		t.Helper()
		tokens, err := f.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:   user.ID,
			CampusID: user.CampusID,
			Email:    user.Email,
		})
		require.NoError(t, err)
		return tokens
	}

	t.Run("issues a new pair and revokes the old refresh token", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")
		tokens := login(t, f, user)

		f.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		fresh, err := f.service.RefreshToken(ctx, tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)

		// the consumed refresh token is now revoked
		_, err = f.service.RefreshToken(ctx, tokens.RefreshToken)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})

	t.Run("rejects an access token presented as refresh", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")
		tokens := login(t, f, user)

		_, err := f.service.RefreshToken(ctx, tokens.AccessToken)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")
		tokens := login(t, f, user)
		require.NoError(t, user.Deactivate())

		f.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err := f.service.RefreshToken(ctx, tokens.RefreshToken)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes both tokens", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")
		tokens, err := f.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:   user.ID,
			CampusID: user.CampusID,
			Email:    user.Email,
		})
		require.NoError(t, err)

		require.NoError(t, f.service.Logout(ctx, tokens.AccessToken, tokens.RefreshToken))

		accessClaims, err := f.jwtService.ValidateAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		blacklisted, err := f.blacklist.IsBlacklisted(ctx, accessClaims.ID)
		require.NoError(t, err)
		assert.True(t, blacklisted)

		refreshClaims, err := f.jwtService.ValidateRefreshToken(tokens.RefreshToken)
		require.NoError(t, err)
		blacklisted, err = f.blacklist.IsBlacklisted(ctx, refreshClaims.ID)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("garbage tokens do not fail logout", func(t *testing.T) {
		f := newAuthServiceFixture()
		assert.NoError(t, f.service.Logout(ctx, "garbage", "also-garbage"))
	})
}

func TestAuthService_VerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes token and marks user verified", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")
		authToken, err := identity.NewAuthToken(user.ID, "raw-token", identity.TokenTypeEmailVerification, time.Hour)
		require.NoError(t, err)

		f.tokenRepo.On("FindByToken", ctx, "raw-token", identity.TokenTypeEmailVerification).Return(authToken, nil)
		f.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		f.tokenRepo.On("Update", ctx, authToken).Return(nil)
		f.userRepo.On("Update", ctx, user).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		dto, err := f.service.VerifyEmail(ctx, "raw-token")

		require.NoError(t, err)
		assert.True(t, dto.IsVerified)
		assert.True(t, authToken.IsUsed)
		f.tokenRepo.AssertExpectations(t)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")
		authToken, err := identity.NewAuthToken(user.ID, "raw-token", identity.TokenTypeEmailVerification, time.Hour)
		require.NoError(t, err)
		authToken.ExpiresAt = time.Now().Add(-time.Minute)

		f.tokenRepo.On("FindByToken", ctx, "raw-token", identity.TokenTypeEmailVerification).Return(authToken, nil)

		_, err = f.service.VerifyEmail(ctx, "raw-token")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_EXPIRED", domainErr.Code)
	})

	t.Run("already used token", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "correct-horse-battery")
		authToken, err := identity.NewAuthToken(user.ID, "raw-token", identity.TokenTypeEmailVerification, time.Hour)
		require.NoError(t, err)
		require.NoError(t, authToken.Consume())

		f.tokenRepo.On("FindByToken", ctx, "raw-token", identity.TokenTypeEmailVerification).Return(authToken, nil)

		_, err = f.service.VerifyEmail(ctx, "raw-token")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_ALREADY_USED", domainErr.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newAuthServiceFixture()

		f.tokenRepo.On("FindByToken", ctx, "nope", identity.TokenTypeEmailVerification).Return(nil, shared.ErrNotFound)

		_, err := f.service.VerifyEmail(ctx, "nope")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("request issues a reset token", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "old-password-123")

		f.userRepo.On("FindByEmail", ctx, "jane.doe@state.edu").Return(user, nil)
		f.tokenRepo.On("DeleteByUser", ctx, user.ID, identity.TokenTypePasswordReset).Return(nil)
		f.tokenRepo.On("Save", ctx, mock.AnythingOfType("*identity.AuthToken")).Return(nil)

		token, err := f.service.RequestPasswordReset(ctx, "jane.doe@state.edu")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		f.tokenRepo.AssertExpectations(t)
	})

	t.Run("request for unknown email succeeds silently", func(t *testing.T) {
		f := newAuthServiceFixture()

		f.userRepo.On("FindByEmail", ctx, "nobody@state.edu").Return(nil, shared.ErrNotFound)

		token, err := f.service.RequestPasswordReset(ctx, "nobody@state.edu")

		require.NoError(t, err)
		assert.Empty(t, token)
		f.tokenRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("reset replaces password and revokes sessions", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "old-password-123")
		authToken, err := identity.NewAuthToken(user.ID, "reset-token", identity.TokenTypePasswordReset, time.Hour)
		require.NoError(t, err)

		tokens, err := f.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:   user.ID,
			CampusID: user.CampusID,
			Email:    user.Email,
		})
		require.NoError(t, err)

		f.tokenRepo.On("FindByToken", ctx, "reset-token", identity.TokenTypePasswordReset).Return(authToken, nil)
		f.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		f.tokenRepo.On("Update", ctx, authToken).Return(nil)
		f.userRepo.On("Update", ctx, user).Return(nil)

		// the invalidation timestamp must land after the pair's issued-at
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, f.service.ResetPassword(ctx, "reset-token", "new-password-456"))

		assert.NoError(t, auth.NewPasswordHasher().Verify(user.PasswordHash, "new-password-456"))

		claims, err := f.jwtService.ValidateRefreshToken(tokens.RefreshToken)
		require.NoError(t, err)
		invalidated, err := f.blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), claims.GetIssuedAtTime())
		require.NoError(t, err)
		assert.True(t, invalidated)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces password when the current one matches", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "old-password-123")

		f.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		f.userRepo.On("Update", ctx, user).Return(nil)

		err := f.service.ChangePassword(ctx, user.ID, "old-password-123", "new-password-456")

		require.NoError(t, err)
		assert.NoError(t, auth.NewPasswordHasher().Verify(user.PasswordHash, "new-password-456"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthServiceFixture()
		user := newTestUser(t, uuid.New(), "old-password-123")

		f.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		err := f.service.ChangePassword(ctx, user.ID, "not-the-password", "new-password-456")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
