package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save creates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email address
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByStudentID finds a user by student ID
func (r *GormUserRepository) FindByStudentID(ctx context.Context, studentID string) (*identity.User, error) {
	var user identity.User
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByCampus finds users enrolled at a campus
func (r *GormUserRepository) FindByCampus(ctx context.Context, campusID uuid.UUID, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	return r.findAll(ctx, filter, func(query *gorm.DB) *gorm.DB {
		return query.Where("campus_id = ?", campusID)
	})
}

// FindAll finds all users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	return r.findAll(ctx, filter, nil)
}

func (r *GormUserRepository) findAll(ctx context.Context, filter shared.Filter, scope func(*gorm.DB) *gorm.DB) (*shared.Paginated[identity.User], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).Model(&identity.User{})
	if scope != nil {
		query = scope(query)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}
	if verified, ok := filter.Filters["is_verified"]; ok {
		query = query.Where("is_verified = ?", verified)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []identity.User
	query = applyListOptions(query, filter, UserSortFields, "created_at")
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(users, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&identity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
