package billing

import (
	"encoding/json"
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BillingCycle is the renewal period of a subscription plan
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "Monthly"
	BillingCycleQuarterly BillingCycle = "Quarterly"
	BillingCycleAnnual    BillingCycle = "Annual"
)

// IsValid checks if the billing cycle is valid
func (c BillingCycle) IsValid() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleAnnual:
		return true
	}
	return false
}

// Duration returns the length of one billing period
func (c BillingCycle) Duration() time.Duration {
	switch c {
	case BillingCycleQuarterly:
		return 3 * 30 * 24 * time.Hour
	case BillingCycleAnnual:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// PlanFeature describes one capability included in a plan
type PlanFeature struct {
	Description string `json:"description"`
	Limit       *int   `json:"limit,omitempty"`
}

// SubscriptionPlan is a purchasable tier with its price, feature set
// and number of promotional slots.
type SubscriptionPlan struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(100);not null;index" json:"name"`
	Description    string          `gorm:"type:text;not null" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	BillingCycle   BillingCycle    `gorm:"type:varchar(20);not null" json:"billing_cycle"`
	Features       string          `gorm:"type:jsonb;not null" json:"-"`
	PromotionSpots int             `gorm:"not null;default:0" json:"promotion_spots"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// NewSubscriptionPlan creates a new plan
func NewSubscriptionPlan(name, description string, price decimal.Decimal, cycle BillingCycle,
	features []PlanFeature, promotionSpots int) (*SubscriptionPlan, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Plan description cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Plan price cannot be negative")
	}
	if !cycle.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_CYCLE", "Invalid billing cycle: "+string(cycle))
	}
	if promotionSpots < 0 {
		return nil, shared.NewDomainError("INVALID_PROMOTION_SPOTS", "Promotion spots cannot be negative")
	}
	if features == nil {
		features = []PlanFeature{}
	}

	raw, err := json.Marshal(features)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_FEATURES", "Cannot encode plan features", err)
	}

	return &SubscriptionPlan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price,
		BillingCycle:      cycle,
		Features:          string(raw),
		PromotionSpots:    promotionSpots,
		IsActive:          true,
	}, nil
}

// DecodeFeatures parses the stored feature list
func (p *SubscriptionPlan) DecodeFeatures() ([]PlanFeature, error) {
	var features []PlanFeature
	if err := json.Unmarshal([]byte(p.Features), &features); err != nil {
		return nil, shared.WrapDomainError("INVALID_FEATURES", "Cannot decode plan features", err)
	}
	return features, nil
}

// Update edits the plan attributes
func (p *SubscriptionPlan) Update(name, description string, price decimal.Decimal, promotionSpots int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Plan price cannot be negative")
	}
	if promotionSpots < 0 {
		return shared.NewDomainError("INVALID_PROMOTION_SPOTS", "Promotion spots cannot be negative")
	}
	p.Name = name
	p.Description = description
	p.Price = price
	p.PromotionSpots = promotionSpots
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Retire hides the plan from new subscribers. Existing subscriptions
// keep running.
func (p *SubscriptionPlan) Retire() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
