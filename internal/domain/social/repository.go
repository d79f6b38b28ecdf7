package social

import (
	"context"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConversationRepository defines persistence operations for threads
type ConversationRepository interface {
	Save(ctx context.Context, conversation *Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	FindByParties(ctx context.Context, productID, buyerID, sellerID uuid.UUID) (*Conversation, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[Conversation], error)
	Update(ctx context.Context, conversation *Conversation) error
}

// MessageRepository defines persistence operations for messages
type MessageRepository interface {
	Save(ctx context.Context, message *Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) (*shared.Paginated[Message], error)
	// MarkConversationRead marks every message in a thread that was
	// sent to (not by) the given user as read
	MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ReviewRepository defines persistence operations for reviews
type ReviewRepository interface {
	Save(ctx context.Context, review *Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByReviewed(ctx context.Context, reviewedID uuid.UUID, filter shared.Filter) (*shared.Paginated[Review], error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[Review], error)
	FindByTriple(ctx context.Context, reviewerID, reviewedID, productID uuid.UUID) (*Review, error)
	// AverageRating computes the mean rating received by a user; ok is
	// false when the user has no reviews
	AverageRating(ctx context.Context, reviewedID uuid.UUID) (avg float64, ok bool, err error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportRepository defines persistence operations for reports
type ReportRepository interface {
	Save(ctx context.Context, report *Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	FindByStatus(ctx context.Context, status ReportStatus, filter shared.Filter) (*shared.Paginated[Report], error)
	FindByReported(ctx context.Context, reportedID uuid.UUID, filter shared.Filter) (*shared.Paginated[Report], error)
	Update(ctx context.Context, report *Report) error
}

// NotificationRepository defines persistence operations for
// notifications
type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) (*shared.Paginated[Notification], error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
