package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Save creates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindChildren finds all direct children of a category
func (r *GormCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*catalog.Category, error) {
	var categories []*catalog.Category
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindRoots finds all top-level categories
func (r *GormCategoryRepository) FindRoots(ctx context.Context) ([]*catalog.Category, error) {
	var categories []*catalog.Category
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("parent_id IS NULL").
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindAll finds all categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[catalog.Category], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).Model(&catalog.Category{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var categories []catalog.Category
	query = applyListOptions(query, filter, CategorySortFields, "name")
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(categories, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update persists changes to a category
func (r *GormCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a category. Children are re-parented to NULL and the
// category's fee row is removed in the same transaction.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&catalog.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&catalog.CategoryFee{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Category{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountProducts counts the products assigned to a category
func (r *GormCategoryRepository) CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Model(&catalog.Product{}).
		Where("category_id = ? AND status <> ?", categoryID, catalog.ProductStatusDeleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

// GormCategoryFeeRepository implements CategoryFeeRepository using GORM
type GormCategoryFeeRepository struct {
	db *gorm.DB
}

// NewGormCategoryFeeRepository creates a new GormCategoryFeeRepository
func NewGormCategoryFeeRepository(db *gorm.DB) *GormCategoryFeeRepository {
	return &GormCategoryFeeRepository{db: db}
}

// Save creates a category fee
func (r *GormCategoryFeeRepository) Save(ctx context.Context, fee *catalog.CategoryFee) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(fee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a category fee by its ID
func (r *GormCategoryFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CategoryFee, error) {
	var fee catalog.CategoryFee
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&fee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &fee, nil
}

// FindByCategory finds the fee configuration for a category
func (r *GormCategoryFeeRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) (*catalog.CategoryFee, error) {
	var fee catalog.CategoryFee
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("category_id = ?", categoryID).
		First(&fee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &fee, nil
}

// Update persists changes to a category fee
func (r *GormCategoryFeeRepository) Update(ctx context.Context, fee *catalog.CategoryFee) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(fee).Error
}

// Delete deletes a category fee
func (r *GormCategoryFeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&catalog.CategoryFee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCategoryFeeRepository implements CategoryFeeRepository
var _ catalog.CategoryFeeRepository = (*GormCategoryFeeRepository)(nil)
