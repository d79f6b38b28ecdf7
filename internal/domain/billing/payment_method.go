package billing

import (
	"encoding/json"
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentMethodType identifies the payment instrument kind
type PaymentMethodType string

const (
	MethodTypeCreditCard   PaymentMethodType = "Credit Card"
	MethodTypePayPal       PaymentMethodType = "PayPal"
	MethodTypeBankTransfer PaymentMethodType = "Bank Transfer"
)

// IsValid checks if the method type is valid
func (t PaymentMethodType) IsValid() bool {
	switch t {
	case MethodTypeCreditCard, MethodTypePayPal, MethodTypeBankTransfer:
		return true
	}
	return false
}

// PaymentMethodDetails holds provider-specific references. Card
// numbers are never stored, only the processor's token.
type PaymentMethodDetails struct {
	StripeCustomerID      string `json:"stripe_customer_id,omitempty"`
	StripePaymentMethodID string `json:"stripe_payment_method_id,omitempty"`
	PayPalEmail           string `json:"paypal_email,omitempty"`
}

// PaymentMethod is a stored payment instrument. At most one method
// per user is the default.
type PaymentMethod struct {
	shared.BaseEntity
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	MethodType PaymentMethodType `gorm:"type:varchar(20);not null" json:"method_type"`
	IsDefault  bool              `gorm:"not null;default:false" json:"is_default"`
	Details    string            `gorm:"type:jsonb;not null" json:"-"`
	LastFour   *string           `gorm:"type:varchar(4)" json:"last_four,omitempty"`
	ExpiryDate *string           `gorm:"type:varchar(7)" json:"expiry_date,omitempty"`
	IsActive   bool              `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// NewPaymentMethod creates a stored payment instrument
func NewPaymentMethod(userID uuid.UUID, methodType PaymentMethodType, details PaymentMethodDetails,
	lastFour, expiryDate *string) (*PaymentMethod, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if !methodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD_TYPE", "Invalid payment method type: "+string(methodType))
	}
	if lastFour != nil && len(*lastFour) != 4 {
		return nil, shared.NewDomainError("INVALID_CARD", "Last four must be exactly 4 digits")
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_DETAILS", "Cannot encode payment method details", err)
	}

	return &PaymentMethod{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		MethodType: methodType,
		Details:    string(raw),
		LastFour:   lastFour,
		ExpiryDate: expiryDate,
		IsActive:   true,
	}, nil
}

// DecodeDetails parses the stored provider details
func (m *PaymentMethod) DecodeDetails() (PaymentMethodDetails, error) {
	var details PaymentMethodDetails
	if err := json.Unmarshal([]byte(m.Details), &details); err != nil {
		return PaymentMethodDetails{}, shared.WrapDomainError("INVALID_DETAILS", "Cannot decode payment method details", err)
	}
	return details, nil
}

// MarkDefault flags this method as the user's default. The service
// clears the flag on the user's other methods in the same transaction.
func (m *PaymentMethod) MarkDefault() {
	m.IsDefault = true
	m.UpdatedAt = time.Now()
}

// UnmarkDefault clears the default flag
func (m *PaymentMethod) UnmarkDefault() {
	m.IsDefault = false
	m.UpdatedAt = time.Now()
}

// Deactivate blocks the method from further use
func (m *PaymentMethod) Deactivate() {
	m.IsActive = false
	m.IsDefault = false
	m.UpdatedAt = time.Now()
}
