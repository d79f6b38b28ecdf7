package commerce

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Cart is a user's shopping cart. Each user has at most one cart,
// created lazily the first time an item is added.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
	}, nil
}

// AddItem adds a product to the cart or increments its quantity when
// already present
func (c *Cart) AddItem(productID uuid.UUID, quantity int, notes *string) (*CartItem, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			if notes != nil {
				c.Items[i].Notes = notes
			}
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return &c.Items[i], nil
		}
	}

	item, err := NewCartItem(c.ID, productID, quantity, notes)
	if err != nil {
		return nil, err
	}
	c.Items = append(c.Items, *item)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity sets the quantity of a cart item
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.WrapDomainError("NOT_FOUND", "Cart item not found", shared.ErrNotFound)
}

// RemoveItem deletes an item from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.WrapDomainError("NOT_FOUND", "Cart item not found", shared.ErrNotFound)
}

// Clear removes all items, used after a successful checkout
func (c *Cart) Clear() {
	c.Items = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsEmpty reports whether the cart holds no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartItem is one product entry in a cart. A product appears at most
// once per cart; repeat adds increment the quantity instead.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a cart item
func NewCartItem(cartID, productID uuid.UUID, quantity int, notes *string) (*CartItem, error) {
	if cartID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CART", "Cart is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     cartID,
		ProductID:  productID,
		Quantity:   quantity,
		Notes:      notes,
	}, nil
}
