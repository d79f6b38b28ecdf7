package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Save creates a product along with its images
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(product).Error
}

// FindByID finds a product by its ID, with images loaded
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Search finds products matching the search criteria
func (r *GormProductRepository) Search(ctx context.Context, search catalog.ProductSearch) (*shared.Paginated[catalog.Product], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).Model(&catalog.Product{})

	if search.Search != "" {
		pattern := "%" + search.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if search.CategoryID != nil {
		query = query.Where("category_id = ?", *search.CategoryID)
	}
	if search.SellerID != nil {
		query = query.Where("seller_id = ?", *search.SellerID)
	}
	if search.CampusID != nil {
		query = query.
			Joins("JOIN users ON users.id = products.seller_id").
			Where("users.campus_id = ?", *search.CampusID)
	}
	if search.Status != nil {
		query = query.Where("status = ?", *search.Status)
	} else {
		query = query.Where("status <> ?", catalog.ProductStatusDeleted)
	}
	if search.Condition != nil {
		query = query.Where("condition = ?", *search.Condition)
	}
	if search.MinPrice != nil {
		query = query.Where("price >= ?", *search.MinPrice)
	}
	if search.MaxPrice != nil {
		query = query.Where("price <= ?", *search.MaxPrice)
	}
	if search.IsService != nil {
		query = query.Where("is_service = ?", *search.IsService)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []catalog.Product
	query = applyListOptions(query, search.Filter, ProductSortFields, "created_at")
	if err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Find(&products).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(products, total, search.Page, search.PageSize)
	return &result, nil
}

// Update persists changes to a product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return dbFor(ctx, r.db).WithContext(ctx).Omit("Images").Save(product).Error
}

// IncrementViews bumps the view counter without loading the row
func (r *GormProductRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a product row
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
