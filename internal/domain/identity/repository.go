package identity

import (
	"context"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CampusRepository defines persistence operations for campuses
type CampusRepository interface {
	Save(ctx context.Context, campus *Campus) error
	FindByID(ctx context.Context, id uuid.UUID) (*Campus, error)
	FindByEmailDomain(ctx context.Context, domain string) (*Campus, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Campus], error)
	Update(ctx context.Context, campus *Campus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByStudentID(ctx context.Context, studentID string) (*User, error)
	FindByCampus(ctx context.Context, campusID uuid.UUID, filter shared.Filter) (*shared.Paginated[User], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[User], error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthTokenRepository defines persistence operations for auth tokens
type AuthTokenRepository interface {
	Save(ctx context.Context, token *AuthToken) error
	FindByToken(ctx context.Context, token string, tokenType TokenType) (*AuthToken, error)
	Update(ctx context.Context, token *AuthToken) error
	DeleteExpired(ctx context.Context) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID, tokenType TokenType) error
}
