package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuthTokenRepository implements AuthTokenRepository using GORM
type GormAuthTokenRepository struct {
	db *gorm.DB
}

// NewGormAuthTokenRepository creates a new GormAuthTokenRepository
func NewGormAuthTokenRepository(db *gorm.DB) *GormAuthTokenRepository {
	return &GormAuthTokenRepository{db: db}
}

// Save creates an auth token
func (r *GormAuthTokenRepository) Save(ctx context.Context, token *identity.AuthToken) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(token).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByToken finds an auth token by its value and type
func (r *GormAuthTokenRepository) FindByToken(ctx context.Context, token string, tokenType identity.TokenType) (*identity.AuthToken, error) {
	var authToken identity.AuthToken
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("token = ? AND token_type = ?", token, tokenType).
		First(&authToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &authToken, nil
}

// Update persists changes to an auth token
func (r *GormAuthTokenRepository) Update(ctx context.Context, token *identity.AuthToken) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(token).Error
}

// DeleteExpired removes expired tokens and returns the number deleted
func (r *GormAuthTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := dbFor(ctx, r.db).WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&identity.AuthToken{})
	return result.RowsAffected, result.Error
}

// DeleteByUser removes all tokens of the given type for a user
func (r *GormAuthTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID, tokenType identity.TokenType) error {
	return dbFor(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND token_type = ?", userID, tokenType).
		Delete(&identity.AuthToken{}).Error
}

// Ensure GormAuthTokenRepository implements AuthTokenRepository
var _ identity.AuthTokenRepository = (*GormAuthTokenRepository)(nil)
