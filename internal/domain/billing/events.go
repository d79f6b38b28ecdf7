package billing

import (
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventPaymentCompleted      = "billing.payment.completed"
	EventPaymentFailed         = "billing.payment.failed"
	EventSubscriptionActivated = "billing.subscription.activated"
)

// PaymentCompletedEvent is raised when a payment succeeds
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType PaymentType     `json:"payment_type"`
}

// NewPaymentCompletedEvent creates a new payment completed event
func NewPaymentCompletedEvent(payment *Payment) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentCompleted, payment.ID, "Payment"),
		PaymentID:       payment.ID,
		UserID:          payment.UserID,
		Amount:          payment.Amount,
		PaymentType:     payment.PaymentType,
	}
}

// PaymentFailedEvent is raised when a payment is declined
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID `json:"payment_id"`
	UserID    uuid.UUID `json:"user_id"`
}

// NewPaymentFailedEvent creates a new payment failed event
func NewPaymentFailedEvent(payment *Payment) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentFailed, payment.ID, "Payment"),
		PaymentID:       payment.ID,
		UserID:          payment.UserID,
	}
}

// SubscriptionActivatedEvent is raised when a subscription starts
type SubscriptionActivatedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	PlanID         uuid.UUID `json:"plan_id"`
}

// NewSubscriptionActivatedEvent creates a new subscription activated event
func NewSubscriptionActivatedEvent(sub *UserSubscription) *SubscriptionActivatedEvent {
	return &SubscriptionActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSubscriptionActivated, sub.ID, "UserSubscription"),
		SubscriptionID:  sub.ID,
		UserID:          sub.UserID,
		PlanID:          sub.PlanID,
	}
}
