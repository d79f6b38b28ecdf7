package billing

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FeeExemptionType classifies why a user pays no transaction fees
type FeeExemptionType string

const (
	ExemptionTypeSubscription FeeExemptionType = "Subscription"
	ExemptionTypePromotion    FeeExemptionType = "Promotion"
	ExemptionTypeSpecial      FeeExemptionType = "Special"
)

// IsValid checks if the exemption type is valid
func (t FeeExemptionType) IsValid() bool {
	switch t {
	case ExemptionTypeSubscription, ExemptionTypePromotion, ExemptionTypeSpecial:
		return true
	}
	return false
}

// FeeExemption waives transaction fees for a user during a time
// window. Subscription exemptions reference the granting subscription.
type FeeExemption struct {
	shared.BaseEntity
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	ExemptionType  FeeExemptionType `gorm:"type:varchar(20);not null" json:"exemption_type"`
	SubscriptionID *uuid.UUID       `gorm:"type:uuid;index" json:"subscription_id,omitempty"`
	StartDate      time.Time        `gorm:"not null" json:"start_date"`
	EndDate        time.Time        `gorm:"not null;index" json:"end_date"`
	IsActive       bool             `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (FeeExemption) TableName() string {
	return "fee_exemptions"
}

// NewFeeExemption creates an exemption for the given window
func NewFeeExemption(userID uuid.UUID, exemptionType FeeExemptionType, subscriptionID *uuid.UUID,
	startDate, endDate time.Time) (*FeeExemption, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if !exemptionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_EXEMPTION_TYPE", "Invalid exemption type: "+string(exemptionType))
	}
	if exemptionType == ExemptionTypeSubscription && subscriptionID == nil {
		return nil, shared.NewDomainError("INVALID_EXEMPTION", "Subscription exemptions must reference a subscription")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Exemption end must be after its start")
	}

	return &FeeExemption{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		ExemptionType:  exemptionType,
		SubscriptionID: subscriptionID,
		StartDate:      startDate,
		EndDate:        endDate,
		IsActive:       true,
	}, nil
}

// AppliesAt reports whether the exemption waives fees at the given time
func (e *FeeExemption) AppliesAt(at time.Time) bool {
	return e.IsActive && !at.Before(e.StartDate) && !at.After(e.EndDate)
}

// Revoke disables the exemption before its end date
func (e *FeeExemption) Revoke() {
	e.IsActive = false
	e.UpdatedAt = time.Now()
}
