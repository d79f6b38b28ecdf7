package billing

import (
	"context"
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentRepository defines persistence operations for payments
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[Payment], error)
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*Payment, error)
	FindByExternalReference(ctx context.Context, ref string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
}

// PaymentMethodRepository defines persistence operations for stored
// payment instruments
type PaymentMethodRepository interface {
	Save(ctx context.Context, method *PaymentMethod) error
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*PaymentMethod, error)
	FindDefaultByUser(ctx context.Context, userID uuid.UUID) (*PaymentMethod, error)
	// ClearDefault unsets the default flag on all of the user's methods
	ClearDefault(ctx context.Context, userID uuid.UUID) error
	Update(ctx context.Context, method *PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionPlanRepository defines persistence operations for plans
type SubscriptionPlanRepository interface {
	Save(ctx context.Context, plan *SubscriptionPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*SubscriptionPlan, error)
	FindActive(ctx context.Context) ([]*SubscriptionPlan, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[SubscriptionPlan], error)
	Update(ctx context.Context, plan *SubscriptionPlan) error
}

// UserSubscriptionRepository defines persistence operations for
// user subscriptions
type UserSubscriptionRepository interface {
	Save(ctx context.Context, sub *UserSubscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*UserSubscription, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserSubscription], error)
	// FindCurrentByUser returns the user's subscription whose period
	// covers the given time and whose benefits still apply
	FindCurrentByUser(ctx context.Context, userID uuid.UUID, at time.Time) (*UserSubscription, error)
	FindExpiring(ctx context.Context, before time.Time) ([]*UserSubscription, error)
	Update(ctx context.Context, sub *UserSubscription) error
}

// FeeExemptionRepository defines persistence operations for exemptions
type FeeExemptionRepository interface {
	Save(ctx context.Context, exemption *FeeExemption) error
	FindByID(ctx context.Context, id uuid.UUID) (*FeeExemption, error)
	// FindActiveByUser returns exemptions whose window covers the given time
	FindActiveByUser(ctx context.Context, userID uuid.UUID, at time.Time) ([]*FeeExemption, error)
	FindBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*FeeExemption, error)
	Update(ctx context.Context, exemption *FeeExemption) error
}

// DiscountCampaignRepository defines persistence operations for
// discount campaigns
type DiscountCampaignRepository interface {
	Save(ctx context.Context, campaign *DiscountCampaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*DiscountCampaign, error)
	FindByCode(ctx context.Context, code string) (*DiscountCampaign, error)
	FindActive(ctx context.Context, at time.Time, filter shared.Filter) (*shared.Paginated[DiscountCampaign], error)
	Update(ctx context.Context, campaign *DiscountCampaign) error
	// IncrementUsage atomically bumps CurrentUsage while enforcing the
	// usage limit. Returns shared.ErrUsageLimitReached when the limit
	// has been exhausted.
	IncrementUsage(ctx context.Context, campaignID uuid.UUID) error
}

// DiscountUsageRepository defines persistence operations for
// redemption records
type DiscountUsageRepository interface {
	Save(ctx context.Context, usage *DiscountUsage) error
	FindByUserAndCampaign(ctx context.Context, userID, campaignID uuid.UUID) ([]*DiscountUsage, error)
	FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]*DiscountUsage, error)
}

// PromotionalSlotRepository defines persistence operations for
// promotional slots
type PromotionalSlotRepository interface {
	Save(ctx context.Context, slot *PromotionalSlot) error
	FindByID(ctx context.Context, id uuid.UUID) (*PromotionalSlot, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[PromotionalSlot], error)
	FindActiveByType(ctx context.Context, promotionType PromotionType, at time.Time) ([]*PromotionalSlot, error)
	// CountConsumedBySubscription counts scheduled and active slots
	// charged against a subscription's spot allowance
	CountConsumedBySubscription(ctx context.Context, subscriptionID uuid.UUID) (int64, error)
	FindEnding(ctx context.Context, before time.Time) ([]*PromotionalSlot, error)
	Update(ctx context.Context, slot *PromotionalSlot) error
}
