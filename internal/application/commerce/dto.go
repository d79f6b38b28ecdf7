package commerce

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemDTO is the API representation of a cart entry
type CartItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CartDTO is the API representation of a cart
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Items     []CartItemDTO `json:"items"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TransactionDTO is the API representation of a sale
type TransactionDTO struct {
	ID              uuid.UUID        `json:"id"`
	ProductID       uuid.UUID        `json:"product_id"`
	BuyerID         uuid.UUID        `json:"buyer_id"`
	SellerID        uuid.UUID        `json:"seller_id"`
	Status          string           `json:"status"`
	Amount          decimal.Decimal  `json:"amount"`
	TransactionDate time.Time        `json:"transaction_date"`
	MeetingLocation *string          `json:"meeting_location,omitempty"`
	MeetingTime     *time.Time       `json:"meeting_time,omitempty"`
	FeeAmount       *decimal.Decimal `json:"fee_amount,omitempty"`
	FeePercentage   *decimal.Decimal `json:"fee_percentage,omitempty"`
	IsFeeExempt     bool             `json:"is_fee_exempt"`
	ExemptionReason *string          `json:"exemption_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// OrderGroupItemDTO links a transaction into an order
type OrderGroupItemDTO struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// OrderGroupDTO is the API representation of a checkout order
type OrderGroupDTO struct {
	ID                 uuid.UUID           `json:"id"`
	BuyerID            uuid.UUID           `json:"buyer_id"`
	Status             string              `json:"status"`
	CreatedFromCart    bool                `json:"created_from_cart"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	DiscountAmount     decimal.Decimal     `json:"discount_amount"`
	DiscountCampaignID *uuid.UUID          `json:"discount_campaign_id,omitempty"`
	PayableAmount      decimal.Decimal     `json:"payable_amount"`
	Items              []OrderGroupItemDTO `json:"items"`
	Transactions       []TransactionDTO    `json:"transactions,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// CheckoutResult is returned by a successful checkout
type CheckoutResult struct {
	Order        OrderGroupDTO    `json:"order"`
	Transactions []TransactionDTO `json:"transactions"`
}

// TransactionListResult is a paginated transaction listing
type TransactionListResult struct {
	Items      []TransactionDTO `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// OrderListResult is a paginated order listing
type OrderListResult struct {
	Items      []OrderGroupDTO `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

func toCartItemDTO(item *commerce.CartItem) CartItemDTO {
	return CartItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Notes:     item.Notes,
		CreatedAt: item.CreatedAt,
	}
}

func toCartDTO(cart *commerce.Cart) CartDTO {
	dto := CartDTO{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]CartItemDTO, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	for i := range cart.Items {
		dto.Items = append(dto.Items, toCartItemDTO(&cart.Items[i]))
	}
	return dto
}

func toTransactionDTO(tx *commerce.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:              tx.ID,
		ProductID:       tx.ProductID,
		BuyerID:         tx.BuyerID,
		SellerID:        tx.SellerID,
		Status:          string(tx.Status),
		Amount:          tx.Amount,
		TransactionDate: tx.TransactionDate,
		MeetingLocation: tx.MeetingLocation,
		MeetingTime:     tx.MeetingTime,
		FeeAmount:       tx.FeeAmount,
		FeePercentage:   tx.FeePercentage,
		IsFeeExempt:     tx.IsFeeExempt,
		ExemptionReason: tx.ExemptionReason,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func toOrderGroupDTO(group *commerce.OrderGroup) OrderGroupDTO {
	dto := OrderGroupDTO{
		ID:                 group.ID,
		BuyerID:            group.BuyerID,
		Status:             string(group.Status),
		CreatedFromCart:    group.CreatedFromCart,
		TotalAmount:        group.TotalAmount,
		DiscountAmount:     group.DiscountAmount,
		DiscountCampaignID: group.DiscountCampaignID,
		PayableAmount:      group.PayableAmount(),
		Items:              make([]OrderGroupItemDTO, 0, len(group.Items)),
		CreatedAt:          group.CreatedAt,
		UpdatedAt:          group.UpdatedAt,
	}
	for i := range group.Items {
		dto.Items = append(dto.Items, OrderGroupItemDTO{
			ID:            group.Items[i].ID,
			TransactionID: group.Items[i].TransactionID,
		})
	}
	return dto
}
