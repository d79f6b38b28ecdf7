package billing

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType distinguishes what a payment is for
type PaymentType string

const (
	PaymentTypeSubscription   PaymentType = "Subscription"
	PaymentTypeTransactionFee PaymentType = "Transaction Fee"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeSubscription || t == PaymentTypeTransactionFee
}

// PaymentStatus represents the state of a payment
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "Pending"
	PaymentStatusCompleted         PaymentStatus = "Completed"
	PaymentStatusFailed            PaymentStatus = "Failed"
	PaymentStatusRefunded          PaymentStatus = "Refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "Partially Refunded"
)

// IsValid checks if the status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusPartiallyRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to target status is allowed
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusCompleted || target == PaymentStatusFailed
	case PaymentStatusCompleted:
		return target == PaymentStatusRefunded || target == PaymentStatusPartiallyRefunded
	case PaymentStatusPartiallyRefunded:
		return target == PaymentStatusRefunded
	}
	return false
}

// Payment records money collected from a user, either a transaction
// fee or a subscription charge. Exactly one of TransactionID and
// SubscriptionID is set, matching the payment type.
type Payment struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentType       PaymentType     `gorm:"type:varchar(20);not null" json:"payment_type"`
	Status            PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	TransactionID     *uuid.UUID      `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	SubscriptionID    *uuid.UUID      `gorm:"type:uuid;index" json:"subscription_id,omitempty"`
	PaymentMethodID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_method_id"`
	PaymentDate       time.Time       `gorm:"not null" json:"payment_date"`
	ExternalReference *string         `gorm:"type:varchar(255);index" json:"external_reference,omitempty"`
	Notes             *string         `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewTransactionFeePayment creates a pending payment covering a
// transaction fee
func NewTransactionFeePayment(userID, transactionID, paymentMethodID uuid.UUID, amount decimal.Decimal) (*Payment, error) {
	p, err := newPayment(userID, paymentMethodID, amount, PaymentTypeTransactionFee)
	if err != nil {
		return nil, err
	}
	if transactionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction is required for a fee payment")
	}
	p.TransactionID = &transactionID
	return p, nil
}

// NewSubscriptionPayment creates a pending payment for a subscription
// period
func NewSubscriptionPayment(userID, subscriptionID, paymentMethodID uuid.UUID, amount decimal.Decimal) (*Payment, error) {
	p, err := newPayment(userID, paymentMethodID, amount, PaymentTypeSubscription)
	if err != nil {
		return nil, err
	}
	if subscriptionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION", "Subscription is required for a subscription payment")
	}
	p.SubscriptionID = &subscriptionID
	return p, nil
}

func newPayment(userID, paymentMethodID uuid.UUID, amount decimal.Decimal, paymentType PaymentType) (*Payment, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if paymentMethodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Amount:            amount,
		PaymentType:       paymentType,
		Status:            PaymentStatusPending,
		PaymentMethodID:   paymentMethodID,
		PaymentDate:       time.Now(),
	}, nil
}

// Complete marks the payment as successfully collected
func (p *Payment) Complete(externalReference string) error {
	if err := p.transitionTo(PaymentStatusCompleted); err != nil {
		return err
	}
	if externalReference != "" {
		p.ExternalReference = &externalReference
	}
	p.PaymentDate = time.Now()
	p.AddDomainEvent(NewPaymentCompletedEvent(p))
	return nil
}

// Fail marks the payment as declined or errored
func (p *Payment) Fail(reason string) error {
	if err := p.transitionTo(PaymentStatusFailed); err != nil {
		return err
	}
	if reason != "" {
		p.Notes = &reason
	}
	p.AddDomainEvent(NewPaymentFailedEvent(p))
	return nil
}

// Refund marks a completed payment fully refunded
func (p *Payment) Refund() error {
	return p.transitionTo(PaymentStatusRefunded)
}

// RefundPartially marks a completed payment partially refunded
func (p *Payment) RefundPartially() error {
	return p.transitionTo(PaymentStatusPartiallyRefunded)
}

func (p *Payment) transitionTo(target PaymentStatus) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.WrapDomainError("INVALID_STATE",
			"Cannot transition payment from "+string(p.Status)+" to "+string(target), shared.ErrInvalidState)
	}
	p.Status = target
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
