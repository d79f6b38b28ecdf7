package identity

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TokenType classifies single-use auth tokens
type TokenType string

const (
	TokenTypePasswordReset     TokenType = "Password Reset"
	TokenTypeEmailVerification TokenType = "Email Verification"
)

// IsValid checks if the token type is valid
func (t TokenType) IsValid() bool {
	switch t {
	case TokenTypePasswordReset, TokenTypeEmailVerification:
		return true
	}
	return false
}

// AuthToken is a single-use, expiring token for password reset and
// email verification flows
type AuthToken struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	TokenType TokenType `gorm:"type:varchar(30);not null" json:"token_type"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsUsed    bool      `gorm:"not null;default:false" json:"is_used"`
}

// TableName returns the table name for GORM
func (AuthToken) TableName() string {
	return "auth_tokens"
}

// NewAuthToken creates a new auth token valid for the given duration
func NewAuthToken(userID uuid.UUID, token string, tokenType TokenType, ttl time.Duration) (*AuthToken, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if token == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token cannot be empty")
	}
	if !tokenType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TOKEN_TYPE", "Invalid token type: "+string(tokenType))
	}
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TOKEN_TTL", "Token lifetime must be positive")
	}

	return &AuthToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Token:      token,
		TokenType:  tokenType,
		ExpiresAt:  time.Now().Add(ttl),
	}, nil
}

// IsExpired reports whether the token is past its expiry
func (t *AuthToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Consume marks the token as used. It fails if the token is expired
// or has already been consumed.
func (t *AuthToken) Consume() error {
	if t.IsUsed {
		return shared.NewDomainError("TOKEN_ALREADY_USED", "Token has already been used")
	}
	if t.IsExpired() {
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	}
	t.IsUsed = true
	t.UpdatedAt = time.Now()
	return nil
}
