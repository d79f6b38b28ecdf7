package billing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

type webhookFixture struct {
	paymentRepo *MockPaymentRepository
	subFixture  *subscriptionFixture
	gateway     *MockPaymentGateway
	eventBus    *MockEventPublisher
	service     *WebhookService
}

func newWebhookFixture() *webhookFixture {
	f := &webhookFixture{
		paymentRepo: new(MockPaymentRepository),
		subFixture:  newSubscriptionFixture(),
		gateway:     new(MockPaymentGateway),
		eventBus:    new(MockEventPublisher),
	}
	f.service = NewWebhookService(f.paymentRepo, f.subFixture.service, f.gateway, f.eventBus, zap.NewNop())
	return f
}

func intentEvent(t *testing.T, eventType, intentID string) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"id": intentID})
	require.NoError(t, err)
	return &stripe.Event{
		ID:   "evt_" + intentID,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func pendingSubscriptionPayment(t *testing.T, userID uuid.UUID, sub *billing.UserSubscription, intentID string) *billing.Payment {
	t.Helper()
	payment, err := billing.NewSubscriptionPayment(userID, sub.ID, uuid.New(), requireDecimal(t, "9.99"))
	require.NoError(t, err)
	payment.ExternalReference = &intentID
	return payment
}

func TestWebhookService_HandleEvent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	payload := []byte(`{}`)
	signature := "t=1,v1=sig"

	t.Run("a succeeded intent settles the payment and activates the subscription", func(t *testing.T) {
		f := newWebhookFixture()
		sub, err := billing.NewUserSubscription(userID, uuid.New(), nil, billing.BillingCycleMonthly)
		require.NoError(t, err)
		payment := pendingSubscriptionPayment(t, userID, sub, "pi_hook_1")

		f.gateway.On("VerifyWebhook", payload, signature).
			Return(intentEvent(t, "payment_intent.succeeded", "pi_hook_1"), nil)
		f.paymentRepo.On("FindByExternalReference", ctx, "pi_hook_1").Return(payment, nil)
		f.paymentRepo.On("Update", ctx, mock.MatchedBy(func(p *billing.Payment) bool {
			return p.Status == billing.PaymentStatusCompleted
		})).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		f.subFixture.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.subFixture.subRepo.On("Update", ctx, sub).Return(nil)
		f.subFixture.exemptionRepo.On("Save", ctx, mock.AnythingOfType("*billing.FeeExemption")).Return(nil)
		f.subFixture.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		result, err := f.service.HandleEvent(ctx, payload, signature)

		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, billing.SubscriptionStatusActive, sub.Status)
	})

	t.Run("a failed intent fails the payment and the subscription", func(t *testing.T) {
		f := newWebhookFixture()
		sub, err := billing.NewUserSubscription(userID, uuid.New(), nil, billing.BillingCycleMonthly)
		require.NoError(t, err)
		payment := pendingSubscriptionPayment(t, userID, sub, "pi_hook_2")

		f.gateway.On("VerifyWebhook", payload, signature).
			Return(intentEvent(t, "payment_intent.payment_failed", "pi_hook_2"), nil)
		f.paymentRepo.On("FindByExternalReference", ctx, "pi_hook_2").Return(payment, nil)
		f.paymentRepo.On("Update", ctx, mock.MatchedBy(func(p *billing.Payment) bool {
			return p.Status == billing.PaymentStatusFailed
		})).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		f.subFixture.subRepo.On("FindByID", ctx, sub.ID).Return(sub, nil)
		f.subFixture.subRepo.On("Update", ctx, sub).Return(nil)

		result, err := f.service.HandleEvent(ctx, payload, signature)

		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, billing.SubscriptionStatusFailed, sub.Status)
	})

	t.Run("intents we never issued are ignored", func(t *testing.T) {
		f := newWebhookFixture()

		f.gateway.On("VerifyWebhook", payload, signature).
			Return(intentEvent(t, "payment_intent.succeeded", "pi_foreign"), nil)
		f.paymentRepo.On("FindByExternalReference", ctx, "pi_foreign").Return(nil, shared.ErrNotFound)

		result, err := f.service.HandleEvent(ctx, payload, signature)

		require.NoError(t, err)
		assert.True(t, result.Processed)
		f.paymentRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	})

	t.Run("settled payments stay settled on redelivery", func(t *testing.T) {
		f := newWebhookFixture()
		sub, err := billing.NewUserSubscription(userID, uuid.New(), nil, billing.BillingCycleMonthly)
		require.NoError(t, err)
		payment := pendingSubscriptionPayment(t, userID, sub, "pi_hook_3")
		require.NoError(t, payment.Complete("pi_hook_3"))
		payment.ClearDomainEvents()

		f.gateway.On("VerifyWebhook", payload, signature).
			Return(intentEvent(t, "payment_intent.succeeded", "pi_hook_3"), nil)
		f.paymentRepo.On("FindByExternalReference", ctx, "pi_hook_3").Return(payment, nil)

		result, err := f.service.HandleEvent(ctx, payload, signature)

		require.NoError(t, err)
		assert.True(t, result.Processed)
		f.paymentRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		f := newWebhookFixture()

		f.gateway.On("VerifyWebhook", payload, "bad").Return(nil, errors.New("signature mismatch"))

		_, err := f.service.HandleEvent(ctx, payload, "bad")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "WEBHOOK_INVALID", domainErr.Code)
	})

	t.Run("unhandled event types are acknowledged", func(t *testing.T) {
		f := newWebhookFixture()

		f.gateway.On("VerifyWebhook", payload, signature).
			Return(intentEvent(t, "customer.created", "pi_none"), nil)

		result, err := f.service.HandleEvent(ctx, payload, signature)

		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "event type not handled", result.Message)
	})
}
