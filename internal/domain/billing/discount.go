package billing

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType distinguishes percentage from fixed amount discounts
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "Percentage"
	DiscountTypeFixed      DiscountType = "Fixed"
)

// IsValid checks if the discount type is valid
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// DiscountAppliesTo scopes what a campaign can discount
type DiscountAppliesTo string

const (
	AppliesToSubscription   DiscountAppliesTo = "Subscription"
	AppliesToTransactionFee DiscountAppliesTo = "Transaction Fee"
	AppliesToOrder          DiscountAppliesTo = "Order"
)

// IsValid checks if the scope is valid
func (a DiscountAppliesTo) IsValid() bool {
	switch a {
	case AppliesToSubscription, AppliesToTransactionFee, AppliesToOrder:
		return true
	}
	return false
}

// DiscountCampaign is a time-boxed discount, optionally gated behind a
// coupon code and an overall usage limit. CurrentUsage is incremented
// atomically by the repository so concurrent redemptions never exceed
// the limit.
type DiscountCampaign struct {
	shared.BaseAggregateRoot
	Name          string            `gorm:"type:varchar(100);not null" json:"name"`
	Description   *string           `gorm:"type:text" json:"description,omitempty"`
	DiscountType  DiscountType      `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	Code          *string           `gorm:"type:varchar(50);uniqueIndex" json:"code,omitempty"`
	AppliesTo     DiscountAppliesTo `gorm:"type:varchar(20);not null" json:"applies_to"`
	MinPurchase   *decimal.Decimal  `gorm:"type:decimal(10,2)" json:"min_purchase,omitempty"`
	MaxDiscount   *decimal.Decimal  `gorm:"type:decimal(10,2)" json:"max_discount,omitempty"`
	StartDate     time.Time         `gorm:"not null" json:"start_date"`
	EndDate       time.Time         `gorm:"not null;index" json:"end_date"`
	UsageLimit    *int              `json:"usage_limit,omitempty"`
	CurrentUsage  int               `gorm:"not null;default:0" json:"current_usage"`
	IsActive      bool              `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (DiscountCampaign) TableName() string {
	return "discount_campaigns"
}

// NewDiscountCampaign creates a campaign
func NewDiscountCampaign(name string, description *string, discountType DiscountType,
	discountValue decimal.Decimal, code *string, appliesTo DiscountAppliesTo,
	minPurchase, maxDiscount *decimal.Decimal, startDate, endDate time.Time, usageLimit *int) (*DiscountCampaign, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Campaign name cannot be empty")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Invalid discount type: "+string(discountType))
	}
	if !appliesTo.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Invalid discount scope: "+string(appliesTo))
	}
	if !discountValue.IsPositive() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value must be positive")
	}
	if discountType == DiscountTypePercentage && discountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percentage discount cannot exceed 100")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Campaign end must be after its start")
	}
	if usageLimit != nil && *usageLimit < 1 {
		return nil, shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit must be at least 1")
	}
	if code != nil && *code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}

	return &DiscountCampaign{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		DiscountType:      discountType,
		DiscountValue:     discountValue,
		Code:              code,
		AppliesTo:         appliesTo,
		MinPurchase:       minPurchase,
		MaxDiscount:       maxDiscount,
		StartDate:         startDate,
		EndDate:           endDate,
		UsageLimit:        usageLimit,
		IsActive:          true,
	}, nil
}

// IsRedeemableAt reports whether the campaign can be applied at the
// given time, ignoring the usage limit which is checked atomically at
// redemption.
func (c *DiscountCampaign) IsRedeemableAt(at time.Time) bool {
	return c.IsActive && !at.Before(c.StartDate) && !at.After(c.EndDate)
}

// ComputeDiscount calculates the discount for an amount, honoring the
// minimum purchase and maximum discount bounds.
func (c *DiscountCampaign) ComputeDiscount(amount decimal.Decimal) (decimal.Decimal, error) {
	if c.MinPurchase != nil && amount.LessThan(*c.MinPurchase) {
		return decimal.Zero, shared.NewDomainError("MIN_PURCHASE_NOT_MET",
			"Order amount does not meet the campaign minimum purchase")
	}

	var discount decimal.Decimal
	if c.DiscountType == DiscountTypePercentage {
		discount = amount.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	} else {
		discount = c.DiscountValue
	}

	if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
		discount = *c.MaxDiscount
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}
	return discount, nil
}

// Deactivate ends the campaign early
func (c *DiscountCampaign) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// DiscountUsage records one redemption of a campaign against a
// payment. A user redeems a campaign at most once per payment.
type DiscountUsage struct {
	shared.BaseEntity
	UserID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_discount_usage" json:"user_id"`
	CampaignID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_discount_usage" json:"campaign_id"`
	PaymentID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_discount_usage" json:"payment_id"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_amount"`
}

// TableName returns the table name for GORM
func (DiscountUsage) TableName() string {
	return "discount_usage"
}

// NewDiscountUsage records a redemption
func NewDiscountUsage(userID, campaignID, paymentID uuid.UUID, amount decimal.Decimal) (*DiscountUsage, error) {
	if userID == uuid.Nil || campaignID == uuid.Nil || paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USAGE", "User, campaign and payment are required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Discount amount cannot be negative")
	}
	return &DiscountUsage{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		CampaignID:     campaignID,
		PaymentID:      paymentID,
		DiscountAmount: amount,
	}, nil
}
