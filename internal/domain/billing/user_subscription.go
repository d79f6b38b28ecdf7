package billing

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionStatus represents the state of a user's subscription
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "Pending"
	SubscriptionStatusActive    SubscriptionStatus = "Active"
	SubscriptionStatusCancelled SubscriptionStatus = "Cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "Expired"
	SubscriptionStatusFailed    SubscriptionStatus = "Failed"
)

// IsValid checks if the status is valid
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusPending, SubscriptionStatusActive, SubscriptionStatusCancelled,
		SubscriptionStatusExpired, SubscriptionStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to target status is allowed
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	switch s {
	case SubscriptionStatusPending:
		return target == SubscriptionStatusActive || target == SubscriptionStatusFailed
	case SubscriptionStatusActive:
		return target == SubscriptionStatusCancelled || target == SubscriptionStatusExpired
	}
	return false
}

// UserSubscription is one user's subscription to a plan for a billing
// period. A cancelled subscription stays usable until its end date.
type UserSubscription struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"plan_id"`
	Status          SubscriptionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	StartDate       time.Time          `gorm:"not null" json:"start_date"`
	EndDate         time.Time          `gorm:"not null;index" json:"end_date"`
	AutoRenew       bool               `gorm:"not null;default:true" json:"auto_renew"`
	PaymentMethodID *uuid.UUID         `gorm:"type:uuid" json:"payment_method_id,omitempty"`
}

// TableName returns the table name for GORM
func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// NewUserSubscription creates a pending subscription awaiting payment
func NewUserSubscription(userID, planID uuid.UUID, paymentMethodID *uuid.UUID, cycle BillingCycle) (*UserSubscription, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if planID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan is required")
	}
	if !cycle.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_CYCLE", "Invalid billing cycle: "+string(cycle))
	}

	now := time.Now()
	return &UserSubscription{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		PlanID:            planID,
		Status:            SubscriptionStatusPending,
		StartDate:         now,
		EndDate:           now.Add(cycle.Duration()),
		AutoRenew:         true,
		PaymentMethodID:   paymentMethodID,
	}, nil
}

// Activate starts the subscription after a successful payment
func (s *UserSubscription) Activate() error {
	if err := s.transitionTo(SubscriptionStatusActive); err != nil {
		return err
	}
	s.AddDomainEvent(NewSubscriptionActivatedEvent(s))
	return nil
}

// MarkFailed records a failed initial payment
func (s *UserSubscription) MarkFailed() error {
	return s.transitionTo(SubscriptionStatusFailed)
}

// Cancel stops auto-renewal. Benefits remain until the end date.
func (s *UserSubscription) Cancel() error {
	if err := s.transitionTo(SubscriptionStatusCancelled); err != nil {
		return err
	}
	s.AutoRenew = false
	return nil
}

// Expire closes out a subscription past its end date
func (s *UserSubscription) Expire() error {
	return s.transitionTo(SubscriptionStatusExpired)
}

// Renew extends an active subscription by another billing period
func (s *UserSubscription) Renew(cycle BillingCycle) error {
	if s.Status != SubscriptionStatusActive {
		return shared.WrapDomainError("INVALID_STATE", "Only active subscriptions can be renewed", shared.ErrInvalidState)
	}
	if !s.AutoRenew {
		return shared.WrapDomainError("INVALID_STATE", "Auto-renewal is disabled for this subscription", shared.ErrInvalidState)
	}
	s.EndDate = s.EndDate.Add(cycle.Duration())
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsCurrent reports whether the subscription benefits apply right now.
// Cancelled subscriptions remain current until the period ends.
func (s *UserSubscription) IsCurrent() bool {
	now := time.Now()
	if now.Before(s.StartDate) || now.After(s.EndDate) {
		return false
	}
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusCancelled
}

func (s *UserSubscription) transitionTo(target SubscriptionStatus) error {
	if !s.Status.CanTransitionTo(target) {
		return shared.WrapDomainError("INVALID_STATE",
			"Cannot transition subscription from "+string(s.Status)+" to "+string(target), shared.ErrInvalidState)
	}
	s.Status = target
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
