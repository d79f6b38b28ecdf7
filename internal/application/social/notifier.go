package social

import (
	"context"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier turns domain events into in-app notifications. It runs on
// the event bus; a failed notification is logged and never fails the
// operation that raised the event.
type Notifier struct {
	notifRepo social.NotificationRepository
	logger    *zap.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(notifRepo social.NotificationRepository, logger *zap.Logger) *Notifier {
	return &Notifier{notifRepo: notifRepo, logger: logger}
}

// EventTypes returns the events the notifier reacts to
func (n *Notifier) EventTypes() []string {
	return []string{
		social.EventMessageSent,
		social.EventReviewSubmitted,
		commerce.EventTransactionCompleted,
		commerce.EventTransactionCancelled,
		billing.EventPaymentCompleted,
		billing.EventPaymentFailed,
		billing.EventSubscriptionActivated,
	}
}

// Handle creates the notification for one event
func (n *Notifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *social.MessageSentEvent:
		n.notify(ctx, e.RecipientID, social.NotificationTypeMessage,
			"New message", "You have a new message in one of your conversations.", &e.ConversationID)
	case *social.ReviewSubmittedEvent:
		n.notify(ctx, e.ReviewedID, social.NotificationTypeReview,
			"New review", "A buyer left you a new review.", &e.ReviewID)
	case *commerce.TransactionCompletedEvent:
		n.notify(ctx, e.SellerID, social.NotificationTypeTransaction,
			"Item sold", "Your listing sold for "+e.Amount.StringFixed(2)+".", &e.TransactionID)
		n.notify(ctx, e.BuyerID, social.NotificationTypeTransaction,
			"Purchase complete", "Your purchase was completed.", &e.TransactionID)
	case *commerce.TransactionCancelledEvent:
		n.notify(ctx, e.SellerID, social.NotificationTypeTransaction,
			"Sale cancelled", "A pending sale of your listing was cancelled.", &e.TransactionID)
	case *billing.PaymentCompletedEvent:
		n.notify(ctx, e.UserID, social.NotificationTypeTransaction,
			"Payment received", "Your payment of "+e.Amount.StringFixed(2)+" was processed.", &e.PaymentID)
	case *billing.PaymentFailedEvent:
		n.notify(ctx, e.UserID, social.NotificationTypeTransaction,
			"Payment failed", "A payment could not be processed. Please check your payment method.", &e.PaymentID)
	case *billing.SubscriptionActivatedEvent:
		n.notify(ctx, e.UserID, social.NotificationTypeSubscription,
			"Subscription active", "Your subscription is now active.", &e.SubscriptionID)
	default:
		n.logger.Debug("unhandled event type", zap.String("event_type", event.EventType()))
	}
	return nil
}

func (n *Notifier) notify(ctx context.Context, userID uuid.UUID, notificationType social.NotificationType,
	title, content string, referenceID *uuid.UUID) {
	notification, err := social.NewNotification(userID, notificationType, title, content, referenceID)
	if err != nil {
		n.logger.Warn("failed to build notification", zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	if err := n.notifRepo.Save(ctx, notification); err != nil {
		n.logger.Warn("failed to save notification",
			zap.String("user_id", userID.String()),
			zap.String("type", string(notificationType)),
			zap.Error(err))
	}
}
