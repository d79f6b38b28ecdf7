package catalog

import (
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductImage is one gallery image of a listing. At most one image
// per product is marked primary.
type ProductImage struct {
	shared.BaseEntity
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ImageURL     string    `gorm:"type:varchar(255);not null" json:"image_url"`
	IsPrimary    bool      `gorm:"not null;default:false" json:"is_primary"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates a new image entry for a product
func NewProductImage(productID uuid.UUID, imageURL string, isPrimary bool, displayOrder int) (*ProductImage, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if imageURL == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot be empty")
	}
	if displayOrder < 0 {
		return nil, shared.NewDomainError("INVALID_DISPLAY_ORDER", "Display order cannot be negative")
	}

	return &ProductImage{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		ImageURL:     imageURL,
		IsPrimary:    isPrimary,
		DisplayOrder: displayOrder,
	}, nil
}
