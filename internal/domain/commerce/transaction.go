package commerce

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a sale
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusCancelled TransactionStatus = "Cancelled"
)

// IsValid checks if the status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if transition to target status is allowed
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	if s != TransactionStatusPending {
		return false
	}
	return target == TransactionStatusCompleted || target == TransactionStatusCancelled
}

// Transaction records a single sale between a buyer and a seller.
// The platform fee is snapshotted at creation time so later fee
// configuration changes never alter past records.
type Transaction struct {
	shared.BaseAggregateRoot
	ProductID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	BuyerID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"buyer_id"`
	SellerID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"seller_id"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Amount          decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"amount"`
	TransactionDate time.Time         `gorm:"not null" json:"transaction_date"`
	MeetingLocation *string           `gorm:"type:varchar(255)" json:"meeting_location,omitempty"`
	MeetingTime     *time.Time        `json:"meeting_time,omitempty"`
	FeeAmount       *decimal.Decimal  `gorm:"type:decimal(10,2)" json:"fee_amount,omitempty"`
	FeePercentage   *decimal.Decimal  `gorm:"type:decimal(5,2)" json:"fee_percentage,omitempty"`
	IsFeeExempt     bool              `gorm:"not null;default:false" json:"is_fee_exempt"`
	ExemptionReason *string           `gorm:"type:varchar(100)" json:"exemption_reason,omitempty"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a pending transaction for a product sale
func NewTransaction(productID, buyerID, sellerID uuid.UUID, amount decimal.Decimal) (*Transaction, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if buyerID == uuid.Nil || sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Buyer and seller are required")
	}
	if buyerID == sellerID {
		return nil, shared.NewDomainError("INVALID_PARTY", "Buyer and seller cannot be the same user")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be negative")
	}

	return &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BuyerID:           buyerID,
		SellerID:          sellerID,
		Status:            TransactionStatusPending,
		Amount:            amount,
		TransactionDate:   time.Now(),
	}, nil
}

// ApplyFee snapshots the computed platform fee onto the transaction
func (t *Transaction) ApplyFee(feeAmount, feePercentage decimal.Decimal) error {
	if t.Status != TransactionStatusPending {
		return shared.WrapDomainError("INVALID_STATE", "Fees can only be set on pending transactions", shared.ErrInvalidState)
	}
	if feeAmount.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Fee amount cannot be negative")
	}
	t.FeeAmount = &feeAmount
	t.FeePercentage = &feePercentage
	t.IsFeeExempt = false
	t.ExemptionReason = nil
	t.UpdatedAt = time.Now()
	return nil
}

// ApplyFeeExemption records that no fee is due and why
func (t *Transaction) ApplyFeeExemption(reason string) error {
	if t.Status != TransactionStatusPending {
		return shared.WrapDomainError("INVALID_STATE", "Fees can only be set on pending transactions", shared.ErrInvalidState)
	}
	zero := decimal.Zero
	t.FeeAmount = &zero
	t.FeePercentage = nil
	t.IsFeeExempt = true
	t.ExemptionReason = &reason
	t.UpdatedAt = time.Now()
	return nil
}

// SetMeeting records the agreed hand-off details
func (t *Transaction) SetMeeting(location string, at time.Time) error {
	if t.Status != TransactionStatusPending {
		return shared.WrapDomainError("INVALID_STATE", "Meetings can only be set on pending transactions", shared.ErrInvalidState)
	}
	if location == "" {
		return shared.NewDomainError("INVALID_MEETING", "Meeting location cannot be empty")
	}
	t.MeetingLocation = &location
	t.MeetingTime = &at
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Complete finalizes the sale
func (t *Transaction) Complete() error {
	if err := t.transitionTo(TransactionStatusCompleted); err != nil {
		return err
	}
	t.AddDomainEvent(NewTransactionCompletedEvent(t))
	return nil
}

// Cancel aborts a pending sale
func (t *Transaction) Cancel() error {
	if err := t.transitionTo(TransactionStatusCancelled); err != nil {
		return err
	}
	t.AddDomainEvent(NewTransactionCancelledEvent(t))
	return nil
}

func (t *Transaction) transitionTo(target TransactionStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return shared.WrapDomainError("INVALID_STATE",
			"Cannot transition transaction from "+string(t.Status)+" to "+string(target), shared.ErrInvalidState)
	}
	t.Status = target
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}
