package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductImageRepository implements ProductImageRepository using GORM
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewGormProductImageRepository creates a new GormProductImageRepository
func NewGormProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// Save creates a product image
func (r *GormProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(image).Error
}

// FindByID finds a product image by its ID
func (r *GormProductImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductImage, error) {
	var image catalog.ProductImage
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByProduct finds all images of a product in display order
func (r *GormProductImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductImage, error) {
	var images []*catalog.ProductImage
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("product_id = ?", productID).
		Order("display_order ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ClearPrimary unsets the primary flag on all images of the product
func (r *GormProductImageRepository) ClearPrimary(ctx context.Context, productID uuid.UUID) error {
	return dbFor(ctx, r.db).WithContext(ctx).
		Model(&catalog.ProductImage{}).
		Where("product_id = ? AND is_primary", productID).
		Update("is_primary", false).Error
}

// Update persists changes to a product image
func (r *GormProductImageRepository) Update(ctx context.Context, image *catalog.ProductImage) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(image).Error
}

// Delete deletes a product image
func (r *GormProductImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&catalog.ProductImage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductImageRepository implements ProductImageRepository
var _ catalog.ProductImageRepository = (*GormProductImageRepository)(nil)

// GormSavedProductRepository implements SavedProductRepository using GORM
type GormSavedProductRepository struct {
	db *gorm.DB
}

// NewGormSavedProductRepository creates a new GormSavedProductRepository
func NewGormSavedProductRepository(db *gorm.DB) *GormSavedProductRepository {
	return &GormSavedProductRepository{db: db}
}

// Save creates a bookmark. Saving the same product twice returns ErrAlreadyExists.
func (r *GormSavedProductRepository) Save(ctx context.Context, saved *catalog.SavedProduct) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByUserAndProduct finds a bookmark by its unique pair
func (r *GormSavedProductRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*catalog.SavedProduct, error) {
	var saved catalog.SavedProduct
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &saved, nil
}

// FindByUser finds all bookmarks of a user
func (r *GormSavedProductRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalog.SavedProduct], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&catalog.SavedProduct{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var saved []catalog.SavedProduct
	query = applyListOptions(query, filter, CommonSortFields, "created_at")
	if err := query.Find(&saved).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(saved, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete deletes a bookmark
func (r *GormSavedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&catalog.SavedProduct{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSavedProductRepository implements SavedProductRepository
var _ catalog.SavedProductRepository = (*GormSavedProductRepository)(nil)
