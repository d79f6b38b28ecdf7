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

// GormCampusRepository implements CampusRepository using GORM
type GormCampusRepository struct {
	db *gorm.DB
}

// NewGormCampusRepository creates a new GormCampusRepository
func NewGormCampusRepository(db *gorm.DB) *GormCampusRepository {
	return &GormCampusRepository{db: db}
}

// Save creates a campus
func (r *GormCampusRepository) Save(ctx context.Context, campus *identity.Campus) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(campus).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a campus by its ID
func (r *GormCampusRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Campus, error) {
	var campus identity.Campus
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&campus, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &campus, nil
}

// FindByEmailDomain finds a campus by its email domain
func (r *GormCampusRepository) FindByEmailDomain(ctx context.Context, domain string) (*identity.Campus, error) {
	var campus identity.Campus
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("email_domain = ?", strings.ToLower(strings.TrimSpace(domain))).
		First(&campus).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &campus, nil
}

// FindAll finds all campuses matching the filter
func (r *GormCampusRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.Campus], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).Model(&identity.Campus{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ?", pattern, pattern)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var campuses []identity.Campus
	query = applyListOptions(query, filter, CampusSortFields, "name")
	if err := query.Find(&campuses).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(campuses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update persists changes to a campus
func (r *GormCampusRepository) Update(ctx context.Context, campus *identity.Campus) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Save(campus).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a campus
func (r *GormCampusRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&identity.Campus{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCampusRepository implements CampusRepository
var _ identity.CampusRepository = (*GormCampusRepository)(nil)
