package catalog

import (
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SavedProduct is a user's bookmark of a listing. A user can save a
// given product at most once.
type SavedProduct struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_product" json:"product_id"`
}

// TableName returns the table name for GORM
func (SavedProduct) TableName() string {
	return "saved_products"
}

// NewSavedProduct creates a bookmark linking a user to a product
func NewSavedProduct(userID, productID uuid.UUID) (*SavedProduct, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}

	return &SavedProduct{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  productID,
	}, nil
}
