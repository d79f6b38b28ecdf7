package billing

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

// WebhookService settles payments from provider events. Charges that
// come back as processing or requires_action stay Pending holding the
// intent ID; the webhook finds them by that reference and finishes
// what the synchronous path could not.
type WebhookService struct {
	paymentRepo billing.PaymentRepository
	subs        *SubscriptionService
	gateway     PaymentGateway
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewWebhookService creates a webhook service
func NewWebhookService(
	paymentRepo billing.PaymentRepository,
	subs *SubscriptionService,
	gateway PaymentGateway,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		paymentRepo: paymentRepo,
		subs:        subs,
		gateway:     gateway,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// WebhookResult reports what happened to an incoming event
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// HandleEvent verifies the payload signature and dispatches the event
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("webhook signature verification failed", zap.Error(err))
		return nil, shared.WrapDomainError("WEBHOOK_INVALID", "Webhook signature verification failed", err)
	}

	s.logger.Info("processing payment webhook",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "payment_intent.succeeded":
		err = s.handleIntentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		err = s.handleIntentFailed(ctx, event)
	case "charge.refunded":
		// refunds are driven from our side; the event is informational
		result.Message = "refund acknowledged"
	default:
		result.Message = "event type not handled"
	}

	if err != nil {
		s.logger.Error("failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}
	return result, nil
}

func (s *WebhookService) handleIntentSucceeded(ctx context.Context, event *stripe.Event) error {
	intent, err := decodeIntent(event)
	if err != nil {
		return err
	}

	payment, err := s.paymentRepo.FindByExternalReference(ctx, intent.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// not one of our pending intents
			s.logger.Debug("webhook intent has no pending payment", zap.String("intent_id", intent.ID))
			return nil
		}
		return err
	}
	if payment.Status != billing.PaymentStatusPending {
		return nil
	}

	if err := payment.Complete(intent.ID); err != nil {
		return err
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}
	s.publishEvents(ctx, payment)

	if payment.PaymentType == billing.PaymentTypeSubscription && payment.SubscriptionID != nil {
		if err := s.subs.ActivateFromPayment(ctx, *payment.SubscriptionID); err != nil {
			return err
		}
	}

	s.logger.Info("payment settled via webhook",
		zap.String("payment_id", payment.ID.String()),
		zap.String("intent_id", intent.ID))
	return nil
}

func (s *WebhookService) handleIntentFailed(ctx context.Context, event *stripe.Event) error {
	intent, err := decodeIntent(event)
	if err != nil {
		return err
	}

	payment, err := s.paymentRepo.FindByExternalReference(ctx, intent.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if payment.Status != billing.PaymentStatusPending {
		return nil
	}

	reason := "charge failed"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
		reason = intent.LastPaymentError.Msg
	}
	if err := payment.Fail(reason); err != nil {
		return err
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}
	s.publishEvents(ctx, payment)

	if payment.PaymentType == billing.PaymentTypeSubscription && payment.SubscriptionID != nil {
		if err := s.subs.FailFromPayment(ctx, *payment.SubscriptionID); err != nil {
			return err
		}
	}

	s.logger.Info("payment failed via webhook",
		zap.String("payment_id", payment.ID.String()),
		zap.String("intent_id", intent.ID),
		zap.String("reason", reason))
	return nil
}

func decodeIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, shared.WrapDomainError("WEBHOOK_INVALID", "Malformed payment intent payload", err)
	}
	return &intent, nil
}

func (s *WebhookService) publishEvents(ctx context.Context, payment *billing.Payment) {
	events := payment.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish payment events", zap.Error(err))
	}
	payment.ClearDomainEvents()
}
