package catalog

import (
	"context"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSearch carries the filters for product listing queries
type ProductSearch struct {
	shared.Filter
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	CampusID   *uuid.UUID
	Status     *ProductStatus
	Condition  *ProductCondition
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	IsService  *bool
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]*Category, error)
	FindRoots(ctx context.Context) ([]*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Category], error)
	Update(ctx context.Context, category *Category) error
	// Delete removes the category. Children are re-parented to nil and
	// the associated fee row is removed in the same transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// CategoryFeeRepository defines persistence operations for category fees
type CategoryFeeRepository interface {
	Save(ctx context.Context, fee *CategoryFee) error
	FindByID(ctx context.Context, id uuid.UUID) (*CategoryFee, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryFee, error)
	Update(ctx context.Context, fee *CategoryFee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Search(ctx context.Context, search ProductSearch) (*shared.Paginated[Product], error)
	Update(ctx context.Context, product *Product) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductImageRepository defines persistence operations for product images
type ProductImageRepository interface {
	Save(ctx context.Context, image *ProductImage) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductImage, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*ProductImage, error)
	// ClearPrimary unsets the primary flag on all images of the product
	ClearPrimary(ctx context.Context, productID uuid.UUID) error
	Update(ctx context.Context, image *ProductImage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SavedProductRepository defines persistence operations for bookmarks
type SavedProductRepository interface {
	Save(ctx context.Context, saved *SavedProduct) error
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*SavedProduct, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[SavedProduct], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
