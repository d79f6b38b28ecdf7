package catalog

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCondition describes the physical condition of a listing
type ProductCondition string

const (
	ConditionNew     ProductCondition = "New"
	ConditionLikeNew ProductCondition = "Like New"
	ConditionGood    ProductCondition = "Good"
	ConditionFair    ProductCondition = "Fair"
	ConditionPoor    ProductCondition = "Poor"
)

// IsValid checks if the condition is valid
func (c ProductCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ProductStatus represents the lifecycle state of a listing
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "Available"
	ProductStatusReserved  ProductStatus = "Reserved"
	ProductStatusSold      ProductStatus = "Sold"
	ProductStatusDeleted   ProductStatus = "Deleted"
)

// IsValid checks if the status is valid
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusReserved, ProductStatusSold, ProductStatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to target status is allowed.
// A reservation can be released back to Available; sold and deleted
// listings are terminal apart from deletion.
func (s ProductStatus) CanTransitionTo(target ProductStatus) bool {
	switch s {
	case ProductStatusAvailable:
		return target == ProductStatusReserved || target == ProductStatusSold || target == ProductStatusDeleted
	case ProductStatusReserved:
		return target == ProductStatusAvailable || target == ProductStatusSold || target == ProductStatusDeleted
	case ProductStatusSold:
		return target == ProductStatusDeleted
	case ProductStatusDeleted:
		return false
	}
	return false
}

// ProductVisibility controls who can see a listing
type ProductVisibility string

const (
	VisibilityPublic     ProductVisibility = "Public"
	VisibilityCampusOnly ProductVisibility = "Campus Only"
)

// IsValid checks if the visibility is valid
func (v ProductVisibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityCampusOnly
}

// Product is a marketplace listing, either a physical item or a service
type Product struct {
	shared.BaseAggregateRoot
	Title       string            `gorm:"type:varchar(255);not null;index" json:"title"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
	Condition   ProductCondition  `gorm:"type:varchar(20);not null" json:"condition"`
	SellerID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"seller_id"`
	CategoryID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"category_id"`
	IsService   bool              `gorm:"not null;default:false" json:"is_service"`
	Location    *string           `gorm:"type:varchar(255)" json:"location,omitempty"`
	Status      ProductStatus     `gorm:"type:varchar(20);not null;default:'Available';index" json:"status"`
	Visibility  ProductVisibility `gorm:"type:varchar(20);not null;default:'Public'" json:"visibility"`
	Views       int               `gorm:"not null;default:0" json:"views"`
	Images      []ProductImage    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new listing in Available status
func NewProduct(title, description string, price decimal.Decimal, condition ProductCondition,
	sellerID, categoryID uuid.UUID, isService bool, visibility ProductVisibility) (*Product, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if len(title) > 255 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 255 characters")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if !condition.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONDITION", "Invalid product condition: "+string(condition))
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller is required")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if !visibility.IsValid() {
		return nil, shared.NewDomainError("INVALID_VISIBILITY", "Invalid product visibility: "+string(visibility))
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Description:       description,
		Price:             price,
		Condition:         condition,
		SellerID:          sellerID,
		CategoryID:        categoryID,
		IsService:         isService,
		Status:            ProductStatusAvailable,
		Visibility:        visibility,
	}
	product.AddDomainEvent(NewProductListedEvent(product))
	return product, nil
}

// Update edits the listing details. Only available or reserved
// listings can be edited.
func (p *Product) Update(title, description string, price decimal.Decimal, condition ProductCondition,
	location *string, visibility ProductVisibility) error {
	if p.Status == ProductStatusSold || p.Status == ProductStatusDeleted {
		return shared.WrapDomainError("INVALID_STATE", "Cannot edit a sold or deleted listing", shared.ErrInvalidState)
	}
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Product description cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if !condition.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION", "Invalid product condition: "+string(condition))
	}
	if !visibility.IsValid() {
		return shared.NewDomainError("INVALID_VISIBILITY", "Invalid product visibility: "+string(visibility))
	}

	p.Title = title
	p.Description = description
	p.Price = price
	p.Condition = condition
	p.Location = location
	p.Visibility = visibility
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ChangeCategory moves the listing to a different category
func (p *Product) ChangeCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Reserve marks the listing as reserved for a pending sale
func (p *Product) Reserve() error {
	return p.transitionTo(ProductStatusReserved)
}

// Release returns a reserved listing to Available
func (p *Product) Release() error {
	if p.Status != ProductStatusReserved {
		return shared.WrapDomainError("INVALID_STATE", "Only reserved listings can be released", shared.ErrInvalidState)
	}
	return p.transitionTo(ProductStatusAvailable)
}

// MarkSold marks the listing as sold
func (p *Product) MarkSold() error {
	if err := p.transitionTo(ProductStatusSold); err != nil {
		return err
	}
	p.AddDomainEvent(NewProductSoldEvent(p))
	return nil
}

// Delete soft-deletes the listing
func (p *Product) Delete() error {
	return p.transitionTo(ProductStatusDeleted)
}

func (p *Product) transitionTo(target ProductStatus) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.WrapDomainError("INVALID_STATE",
			"Cannot transition product from "+string(p.Status)+" to "+string(target), shared.ErrInvalidState)
	}
	p.Status = target
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsAvailable reports whether the listing can be purchased
func (p *Product) IsAvailable() bool {
	return p.Status == ProductStatusAvailable
}

// IncrementViews bumps the view counter
func (p *Product) IncrementViews() {
	p.Views++
}

// VisibleTo reports whether a viewer from the given campus can see the
// listing. Sellers always see their own listings.
func (p *Product) VisibleTo(viewerID, viewerCampusID, sellerCampusID uuid.UUID) bool {
	if p.SellerID == viewerID {
		return true
	}
	if p.Status == ProductStatusDeleted {
		return false
	}
	if p.Visibility == VisibilityCampusOnly {
		return viewerCampusID == sellerCampusID
	}
	return true
}

// PrimaryImage returns the primary image, or nil when no image is set
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}
