package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/paymentmethod"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// ChargeStatus is the normalized outcome of a charge attempt
type ChargeStatus string

const (
	ChargeStatusSucceeded      ChargeStatus = "succeeded"
	ChargeStatusProcessing     ChargeStatus = "processing"
	ChargeStatusRequiresAction ChargeStatus = "requires_action"
	ChargeStatusFailed         ChargeStatus = "failed"
)

// CreateCustomerInput contains input for creating a Stripe customer
type CreateCustomerInput struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// CreateCustomerOutput contains the result of creating a Stripe customer
type CreateCustomerOutput struct {
	CustomerID string
	Email      string
	Name       string
	CreatedAt  time.Time
}

// ChargeInput contains input for a marketplace charge
type ChargeInput struct {
	// Amount in major currency units, converted to minor units for Stripe
	Amount decimal.Decimal
	// Currency overrides the configured default when non-empty
	Currency string
	// CustomerID is the Stripe customer the charge belongs to
	CustomerID string
	// PaymentMethodToken is the Stripe payment method id to charge
	PaymentMethodToken string
	// PaymentID correlates the charge with the local payment record
	PaymentID   uuid.UUID
	Description string
	Metadata    map[string]string
}

// ChargeOutput contains the result of a charge attempt
type ChargeOutput struct {
	IntentID     string
	ClientSecret string
	Status       ChargeStatus
	Amount       decimal.Decimal
}

// RefundInput contains input for refunding a charge
type RefundInput struct {
	IntentID string
	// Amount refunds partially when set, fully when nil
	Amount *decimal.Decimal
}

// RefundOutput contains the result of a refund
type RefundOutput struct {
	RefundID string
	Status   string
	Amount   decimal.Decimal
}

// StripeGateway wraps Stripe payment operations for the marketplace
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreateCustomer creates a new customer in Stripe
func (g *StripeGateway) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CreateCustomerOutput, error) {
	g.logger.Debug("Creating Stripe customer",
		zap.String("user_id", input.UserID.String()),
		zap.String("email", input.Email))

	params := &stripe.CustomerParams{
		Email: stripe.String(input.Email),
		Name:  stripe.String(input.Name),
	}
	params.Metadata = map[string]string{
		"user_id": input.UserID.String(),
	}

	cust, err := customer.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe customer",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	g.logger.Info("Created Stripe customer",
		zap.String("user_id", input.UserID.String()),
		zap.String("customer_id", cust.ID))

	return &CreateCustomerOutput{
		CustomerID: cust.ID,
		Email:      cust.Email,
		Name:       cust.Name,
		CreatedAt:  time.Unix(cust.Created, 0),
	}, nil
}

// AttachPaymentMethod attaches a payment method token to a customer
func (g *StripeGateway) AttachPaymentMethod(ctx context.Context, customerID, token string) error {
	_, err := paymentmethod.Attach(token, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	})
	if err != nil {
		g.logger.Error("Failed to attach payment method",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to attach payment method: %w", err)
	}
	return nil
}

// DetachPaymentMethod detaches a payment method token from its customer
func (g *StripeGateway) DetachPaymentMethod(ctx context.Context, token string) error {
	_, err := paymentmethod.Detach(token, nil)
	if err != nil {
		g.logger.Error("Failed to detach payment method", zap.Error(err))
		return fmt.Errorf("stripe: failed to detach payment method: %w", err)
	}
	return nil
}

// Charge creates and confirms a payment intent for a marketplace payment
func (g *StripeGateway) Charge(ctx context.Context, input ChargeInput) (*ChargeOutput, error) {
	currency := input.Currency
	if currency == "" {
		currency = g.config.DefaultCurrency
	}

	g.logger.Debug("Creating Stripe payment intent",
		zap.String("payment_id", input.PaymentID.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("currency", currency))

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(input.Amount)),
		Currency: stripe.String(currency),
		Confirm:  stripe.Bool(true),
	}
	if input.CustomerID != "" {
		params.Customer = stripe.String(input.CustomerID)
	}
	if input.PaymentMethodToken != "" {
		params.PaymentMethod = stripe.String(input.PaymentMethodToken)
	}
	if input.Description != "" {
		params.Description = stripe.String(input.Description)
	}
	params.Metadata = map[string]string{
		"payment_id": input.PaymentID.String(),
	}
	for k, v := range input.Metadata {
		params.Metadata[k] = v
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error("Failed to create payment intent",
			zap.String("payment_id", input.PaymentID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Info("Created Stripe payment intent",
		zap.String("payment_id", input.PaymentID.String()),
		zap.String("intent_id", intent.ID),
		zap.String("status", string(intent.Status)))

	return &ChargeOutput{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       mapIntentStatus(intent.Status),
		Amount:       fromMinorUnits(intent.Amount),
	}, nil
}

// GetCharge retrieves the current state of a payment intent
func (g *StripeGateway) GetCharge(ctx context.Context, intentID string) (*ChargeOutput, error) {
	intent, err := paymentintent.Get(intentID, nil)
	if err != nil {
		g.logger.Error("Failed to get payment intent",
			zap.String("intent_id", intentID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get payment intent: %w", err)
	}

	return &ChargeOutput{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       mapIntentStatus(intent.Status),
		Amount:       fromMinorUnits(intent.Amount),
	}, nil
}

// Refund refunds a charge, partially when input.Amount is set
func (g *StripeGateway) Refund(ctx context.Context, input RefundInput) (*RefundOutput, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(input.IntentID),
	}
	if input.Amount != nil {
		params.Amount = stripe.Int64(toMinorUnits(*input.Amount))
	}

	ref, err := refund.New(params)
	if err != nil {
		g.logger.Error("Failed to refund payment intent",
			zap.String("intent_id", input.IntentID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to refund: %w", err)
	}

	g.logger.Info("Refunded Stripe payment intent",
		zap.String("intent_id", input.IntentID),
		zap.String("refund_id", ref.ID))

	return &RefundOutput{
		RefundID: ref.ID,
		Status:   string(ref.Status),
		Amount:   fromMinorUnits(ref.Amount),
	}, nil
}

// VerifyWebhook verifies the signature header and parses the event payload.
// API version mismatches are tolerated so events pinned to an older
// dashboard version still pass verification.
func (g *StripeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook verification failed: %w", err)
	}
	return &event, nil
}

// toMinorUnits converts a major-unit amount to Stripe minor units
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// fromMinorUnits converts Stripe minor units back to a major-unit amount
func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}

// mapIntentStatus normalizes Stripe payment intent statuses
func mapIntentStatus(status stripe.PaymentIntentStatus) ChargeStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return ChargeStatusSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return ChargeStatusProcessing
	case stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod:
		return ChargeStatusRequiresAction
	default:
		return ChargeStatusFailed
	}
}
