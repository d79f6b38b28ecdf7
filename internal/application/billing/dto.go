package billing

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethodDTO is the API representation of a stored instrument.
// Provider tokens never leave the service layer.
type PaymentMethodDTO struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	MethodType string    `json:"method_type"`
	IsDefault  bool      `json:"is_default"`
	LastFour   *string   `json:"last_four,omitempty"`
	ExpiryDate *string   `json:"expiry_date,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// PaymentDTO is the API representation of a payment
type PaymentDTO struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentType       string          `json:"payment_type"`
	Status            string          `json:"status"`
	TransactionID     *uuid.UUID      `json:"transaction_id,omitempty"`
	SubscriptionID    *uuid.UUID      `json:"subscription_id,omitempty"`
	PaymentMethodID   uuid.UUID       `json:"payment_method_id"`
	PaymentDate       time.Time       `json:"payment_date"`
	ExternalReference *string         `json:"external_reference,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// SubscriptionPlanDTO is the API representation of a plan
type SubscriptionPlanDTO struct {
	ID             uuid.UUID             `json:"id"`
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	Price          decimal.Decimal       `json:"price"`
	BillingCycle   string                `json:"billing_cycle"`
	Features       []billing.PlanFeature `json:"features"`
	PromotionSpots int                   `json:"promotion_spots"`
	IsActive       bool                  `json:"is_active"`
}

// UserSubscriptionDTO is the API representation of a subscription
type UserSubscriptionDTO struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	PlanID          uuid.UUID  `json:"plan_id"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	AutoRenew       bool       `json:"auto_renew"`
	PaymentMethodID *uuid.UUID `json:"payment_method_id,omitempty"`
}

// PromotionalSlotDTO is the API representation of a promotion
type PromotionalSlotDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	UserID         uuid.UUID `json:"user_id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	PromotionType  string    `json:"promotion_type"`
	Status         string    `json:"status"`
}

// DiscountCampaignDTO is the API representation of a campaign
type DiscountCampaignDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	Code          *string          `json:"code,omitempty"`
	AppliesTo     string           `json:"applies_to"`
	MinPurchase   *decimal.Decimal `json:"min_purchase,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	CurrentUsage  int              `json:"current_usage"`
	IsActive      bool             `json:"is_active"`
}

// PaymentListResult is a paginated payment listing
type PaymentListResult struct {
	Items      []PaymentDTO `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// SubscriptionListResult is a paginated subscription listing
type SubscriptionListResult struct {
	Items      []UserSubscriptionDTO `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// PromotionListResult is a paginated promotion listing
type PromotionListResult struct {
	Items      []PromotionalSlotDTO `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// CampaignListResult is a paginated campaign listing
type CampaignListResult struct {
	Items      []DiscountCampaignDTO `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

func toPaymentMethodDTO(m *billing.PaymentMethod) PaymentMethodDTO {
	return PaymentMethodDTO{
		ID:         m.ID,
		UserID:     m.UserID,
		MethodType: string(m.MethodType),
		IsDefault:  m.IsDefault,
		LastFour:   m.LastFour,
		ExpiryDate: m.ExpiryDate,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
	}
}

func toPaymentDTO(p *billing.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                p.ID,
		UserID:            p.UserID,
		Amount:            p.Amount,
		PaymentType:       string(p.PaymentType),
		Status:            string(p.Status),
		TransactionID:     p.TransactionID,
		SubscriptionID:    p.SubscriptionID,
		PaymentMethodID:   p.PaymentMethodID,
		PaymentDate:       p.PaymentDate,
		ExternalReference: p.ExternalReference,
		CreatedAt:         p.CreatedAt,
	}
}

func toPlanDTO(p *billing.SubscriptionPlan) SubscriptionPlanDTO {
	features, err := p.DecodeFeatures()
	if err != nil {
		features = []billing.PlanFeature{}
	}
	return SubscriptionPlanDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		BillingCycle:   string(p.BillingCycle),
		Features:       features,
		PromotionSpots: p.PromotionSpots,
		IsActive:       p.IsActive,
	}
}

func toSubscriptionDTO(s *billing.UserSubscription) UserSubscriptionDTO {
	return UserSubscriptionDTO{
		ID:              s.ID,
		UserID:          s.UserID,
		PlanID:          s.PlanID,
		Status:          string(s.Status),
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		AutoRenew:       s.AutoRenew,
		PaymentMethodID: s.PaymentMethodID,
	}
}

func toSlotDTO(s *billing.PromotionalSlot) PromotionalSlotDTO {
	return PromotionalSlotDTO{
		ID:             s.ID,
		ProductID:      s.ProductID,
		UserID:         s.UserID,
		SubscriptionID: s.SubscriptionID,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		PromotionType:  string(s.PromotionType),
		Status:         string(s.Status),
	}
}

func toCampaignDTO(c *billing.DiscountCampaign) DiscountCampaignDTO {
	return DiscountCampaignDTO{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		Code:          c.Code,
		AppliesTo:     string(c.AppliesTo),
		MinPurchase:   c.MinPurchase,
		MaxDiscount:   c.MaxDiscount,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		UsageLimit:    c.UsageLimit,
		CurrentUsage:  c.CurrentUsage,
		IsActive:      c.IsActive,
	}
}
