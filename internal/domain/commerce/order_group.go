package commerce

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderGroupStatus represents the state of a multi-item checkout
type OrderGroupStatus string

const (
	OrderGroupStatusCreated            OrderGroupStatus = "Created"
	OrderGroupStatusProcessing         OrderGroupStatus = "Processing"
	OrderGroupStatusCompleted          OrderGroupStatus = "Completed"
	OrderGroupStatusPartiallyCompleted OrderGroupStatus = "Partially Completed"
	OrderGroupStatusCancelled          OrderGroupStatus = "Cancelled"
)

// IsValid checks if the status is valid
func (s OrderGroupStatus) IsValid() bool {
	switch s {
	case OrderGroupStatusCreated, OrderGroupStatusProcessing, OrderGroupStatusCompleted,
		OrderGroupStatusPartiallyCompleted, OrderGroupStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to target status is allowed
func (s OrderGroupStatus) CanTransitionTo(target OrderGroupStatus) bool {
	switch s {
	case OrderGroupStatusCreated:
		return target == OrderGroupStatusProcessing || target == OrderGroupStatusCancelled
	case OrderGroupStatusProcessing:
		return target == OrderGroupStatusCompleted || target == OrderGroupStatusPartiallyCompleted ||
			target == OrderGroupStatusCancelled
	}
	return false
}

// OrderGroup bundles the transactions produced by one cart checkout
// so they can be paid and tracked together.
type OrderGroup struct {
	shared.BaseAggregateRoot
	BuyerID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"buyer_id"`
	Status             OrderGroupStatus `gorm:"type:varchar(30);not null;default:'Created';index" json:"status"`
	CreatedFromCart    bool             `gorm:"not null;default:true" json:"created_from_cart"`
	TotalAmount        decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DiscountAmount     decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	DiscountCampaignID *uuid.UUID       `gorm:"type:uuid" json:"discount_campaign_id,omitempty"`
	Items              []OrderGroupItem `gorm:"foreignKey:OrderGroupID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName returns the table name for GORM
func (OrderGroup) TableName() string {
	return "order_groups"
}

// NewOrderGroup creates an order group for a buyer's checkout
func NewOrderGroup(buyerID uuid.UUID, totalAmount decimal.Decimal, fromCart bool) (*OrderGroup, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer is required")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total cannot be negative")
	}

	return &OrderGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		Status:            OrderGroupStatusCreated,
		CreatedFromCart:   fromCart,
		TotalAmount:       totalAmount,
		DiscountAmount:    decimal.Zero,
	}, nil
}

// AddTransaction links a transaction into the group. A transaction
// belongs to at most one group.
func (g *OrderGroup) AddTransaction(transactionID uuid.UUID) error {
	if g.Status != OrderGroupStatusCreated {
		return shared.WrapDomainError("INVALID_STATE", "Items can only be added to a newly created order", shared.ErrInvalidState)
	}
	for i := range g.Items {
		if g.Items[i].TransactionID == transactionID {
			return shared.WrapDomainError("ALREADY_EXISTS", "Transaction already belongs to this order", shared.ErrAlreadyExists)
		}
	}
	item, err := NewOrderGroupItem(g.ID, transactionID)
	if err != nil {
		return err
	}
	g.Items = append(g.Items, *item)
	g.UpdatedAt = time.Now()
	return nil
}

// ApplyDiscount records a discount applied to the whole order. The
// discount can never exceed the order total.
func (g *OrderGroup) ApplyDiscount(campaignID uuid.UUID, amount decimal.Decimal) error {
	if g.Status != OrderGroupStatusCreated {
		return shared.WrapDomainError("INVALID_STATE", "Discounts can only be applied before processing", shared.ErrInvalidState)
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}
	if amount.GreaterThan(g.TotalAmount) {
		amount = g.TotalAmount
	}
	g.DiscountCampaignID = &campaignID
	g.DiscountAmount = amount
	g.UpdatedAt = time.Now()
	return nil
}

// PayableAmount is the order total after the group-level discount
func (g *OrderGroup) PayableAmount() decimal.Decimal {
	return g.TotalAmount.Sub(g.DiscountAmount)
}

// StartProcessing moves the order into payment processing
func (g *OrderGroup) StartProcessing() error {
	return g.transitionTo(OrderGroupStatusProcessing)
}

// Complete marks every item in the order as fulfilled
func (g *OrderGroup) Complete() error {
	return g.transitionTo(OrderGroupStatusCompleted)
}

// CompletePartially marks the order as finished with some items cancelled
func (g *OrderGroup) CompletePartially() error {
	return g.transitionTo(OrderGroupStatusPartiallyCompleted)
}

// Cancel aborts the whole order
func (g *OrderGroup) Cancel() error {
	return g.transitionTo(OrderGroupStatusCancelled)
}

func (g *OrderGroup) transitionTo(target OrderGroupStatus) error {
	if !g.Status.CanTransitionTo(target) {
		return shared.WrapDomainError("INVALID_STATE",
			"Cannot transition order from "+string(g.Status)+" to "+string(target), shared.ErrInvalidState)
	}
	g.Status = target
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// OrderGroupItem links one transaction into an order group
type OrderGroupItem struct {
	shared.BaseEntity
	OrderGroupID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_transaction" json:"order_group_id"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_transaction;uniqueIndex" json:"transaction_id"`
}

// TableName returns the table name for GORM
func (OrderGroupItem) TableName() string {
	return "order_group_items"
}

// NewOrderGroupItem creates an order group membership entry
func NewOrderGroupItem(orderGroupID, transactionID uuid.UUID) (*OrderGroupItem, error) {
	if orderGroupID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order group is required")
	}
	if transactionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction is required")
	}
	return &OrderGroupItem{
		BaseEntity:    shared.NewBaseEntity(),
		OrderGroupID:  orderGroupID,
		TransactionID: transactionID,
	}, nil
}
