package billing

import (
	"context"

	infra "github.com/campusmarket/backend/internal/infrastructure/billing"
	"github.com/stripe/stripe-go/v81"
)

// PaymentGateway is the provider surface the billing services depend
// on. The Stripe adapter in infrastructure/billing implements it.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, input infra.CreateCustomerInput) (*infra.CreateCustomerOutput, error)
	AttachPaymentMethod(ctx context.Context, customerID, token string) error
	DetachPaymentMethod(ctx context.Context, token string) error
	Charge(ctx context.Context, input infra.ChargeInput) (*infra.ChargeOutput, error)
	Refund(ctx context.Context, input infra.RefundInput) (*infra.RefundOutput, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*stripe.Event, error)
}
