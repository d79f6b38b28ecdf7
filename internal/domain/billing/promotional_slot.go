package billing

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PromotionType identifies where a promoted listing surfaces
type PromotionType string

const (
	PromotionTypeFeatured       PromotionType = "Featured"
	PromotionTypeTopResults     PromotionType = "Top Results"
	PromotionTypeHomepage       PromotionType = "Homepage"
	PromotionTypeCategoryBanner PromotionType = "Category Banner"
)

// IsValid checks if the promotion type is valid
func (t PromotionType) IsValid() bool {
	switch t {
	case PromotionTypeFeatured, PromotionTypeTopResults, PromotionTypeHomepage, PromotionTypeCategoryBanner:
		return true
	}
	return false
}

// PromotionStatus represents the state of a promotional slot
type PromotionStatus string

const (
	PromotionStatusScheduled PromotionStatus = "Scheduled"
	PromotionStatusActive    PromotionStatus = "Active"
	PromotionStatusEnded     PromotionStatus = "Ended"
	PromotionStatusCancelled PromotionStatus = "Cancelled"
)

// IsValid checks if the status is valid
func (s PromotionStatus) IsValid() bool {
	switch s {
	case PromotionStatusScheduled, PromotionStatusActive, PromotionStatusEnded, PromotionStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to target status is allowed
func (s PromotionStatus) CanTransitionTo(target PromotionStatus) bool {
	switch s {
	case PromotionStatusScheduled:
		return target == PromotionStatusActive || target == PromotionStatusCancelled
	case PromotionStatusActive:
		return target == PromotionStatusEnded || target == PromotionStatusCancelled
	}
	return false
}

// PromotionalSlot is a paid boost of a listing, consuming one of the
// promotion spots granted by the owner's subscription plan.
type PromotionalSlot struct {
	shared.BaseAggregateRoot
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	SubscriptionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"subscription_id"`
	StartDate      time.Time       `gorm:"not null" json:"start_date"`
	EndDate        time.Time       `gorm:"not null;index" json:"end_date"`
	PromotionType  PromotionType   `gorm:"type:varchar(20);not null" json:"promotion_type"`
	Status         PromotionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
}

// TableName returns the table name for GORM
func (PromotionalSlot) TableName() string {
	return "promotional_slots"
}

// NewPromotionalSlot schedules a promotion. Slots starting now or in
// the past begin Active, future slots begin Scheduled.
func NewPromotionalSlot(productID, userID, subscriptionID uuid.UUID, promotionType PromotionType,
	startDate, endDate time.Time) (*PromotionalSlot, error) {
	if productID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROMOTION", "Product and user are required")
	}
	if subscriptionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION", "Promotions require an active subscription")
	}
	if !promotionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROMOTION_TYPE", "Invalid promotion type: "+string(promotionType))
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Promotion end must be after its start")
	}

	status := PromotionStatusScheduled
	if !startDate.After(time.Now()) {
		status = PromotionStatusActive
	}

	return &PromotionalSlot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		SubscriptionID:    subscriptionID,
		StartDate:         startDate,
		EndDate:           endDate,
		PromotionType:     promotionType,
		Status:            status,
	}, nil
}

// Activate starts a scheduled promotion
func (s *PromotionalSlot) Activate() error {
	return s.transitionTo(PromotionStatusActive)
}

// End finishes a running promotion
func (s *PromotionalSlot) End() error {
	return s.transitionTo(PromotionStatusEnded)
}

// Cancel stops the promotion before or during its run
func (s *PromotionalSlot) Cancel() error {
	return s.transitionTo(PromotionStatusCancelled)
}

// ConsumesSpot reports whether the slot counts against the plan's
// promotion spot allowance
func (s *PromotionalSlot) ConsumesSpot() bool {
	return s.Status == PromotionStatusScheduled || s.Status == PromotionStatusActive
}

func (s *PromotionalSlot) transitionTo(target PromotionStatus) error {
	if !s.Status.CanTransitionTo(target) {
		return shared.WrapDomainError("INVALID_STATE",
			"Cannot transition promotion from "+string(s.Status)+" to "+string(target), shared.ErrInvalidState)
	}
	s.Status = target
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
