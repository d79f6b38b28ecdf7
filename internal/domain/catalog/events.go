package catalog

import (
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventProductListed = "catalog.product.listed"
	EventProductSold   = "catalog.product.sold"
)

// ProductListedEvent is raised when a new listing is created
type ProductListedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
}

// NewProductListedEvent creates a new product listed event
func NewProductListedEvent(product *Product) *ProductListedEvent {
	return &ProductListedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductListed, product.ID, "Product"),
		ProductID:       product.ID,
		SellerID:        product.SellerID,
		Title:           product.Title,
		Price:           product.Price,
	}
}

// ProductSoldEvent is raised when a listing transitions to Sold
type ProductSoldEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Title     string    `json:"title"`
}

// NewProductSoldEvent creates a new product sold event
func NewProductSoldEvent(product *Product) *ProductSoldEvent {
	return &ProductSoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductSold, product.ID, "Product"),
		ProductID:       product.ID,
		SellerID:        product.SellerID,
		Title:           product.Title,
	}
}
