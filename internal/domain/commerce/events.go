package commerce

import (
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTransactionCompleted = "commerce.transaction.completed"
	EventTransactionCancelled = "commerce.transaction.cancelled"
)

// TransactionCompletedEvent is raised when a sale is finalized
type TransactionCompletedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	SellerID      uuid.UUID       `json:"seller_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewTransactionCompletedEvent creates a new transaction completed event
func NewTransactionCompletedEvent(tx *Transaction) *TransactionCompletedEvent {
	return &TransactionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionCompleted, tx.ID, "Transaction"),
		TransactionID:   tx.ID,
		ProductID:       tx.ProductID,
		BuyerID:         tx.BuyerID,
		SellerID:        tx.SellerID,
		Amount:          tx.Amount,
	}
}

// TransactionCancelledEvent is raised when a pending sale is aborted
type TransactionCancelledEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID `json:"transaction_id"`
	ProductID     uuid.UUID `json:"product_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	SellerID      uuid.UUID `json:"seller_id"`
}

// NewTransactionCancelledEvent creates a new transaction cancelled event
func NewTransactionCancelledEvent(tx *Transaction) *TransactionCancelledEvent {
	return &TransactionCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionCancelled, tx.ID, "Transaction"),
		TransactionID:   tx.ID,
		ProductID:       tx.ProductID,
		BuyerID:         tx.BuyerID,
		SellerID:        tx.SellerID,
	}
}
