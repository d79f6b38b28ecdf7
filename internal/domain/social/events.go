package social

import (
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventMessageSent     = "social.message.sent"
	EventReviewSubmitted = "social.review.submitted"
)

// MessageSentEvent is raised when a message is posted to a thread
type MessageSentEvent struct {
	shared.BaseDomainEvent
	MessageID      uuid.UUID `json:"message_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	RecipientID    uuid.UUID `json:"recipient_id"`
}

// NewMessageSentEvent creates a new message sent event
func NewMessageSentEvent(message *Message, recipientID uuid.UUID) *MessageSentEvent {
	return &MessageSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventMessageSent, message.ID, "Message"),
		MessageID:       message.ID,
		ConversationID:  message.ConversationID,
		SenderID:        message.SenderID,
		RecipientID:     recipientID,
	}
}

// ReviewSubmittedEvent is raised when a review is created
type ReviewSubmittedEvent struct {
	shared.BaseDomainEvent
	ReviewID   uuid.UUID `json:"review_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	ReviewedID uuid.UUID `json:"reviewed_id"`
	Rating     int       `json:"rating"`
}

// NewReviewSubmittedEvent creates a new review submitted event
func NewReviewSubmittedEvent(review *Review) *ReviewSubmittedEvent {
	return &ReviewSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReviewSubmitted, review.ID, "Review"),
		ReviewID:        review.ID,
		ReviewerID:      review.ReviewerID,
		ReviewedID:      review.ReviewedID,
		Rating:          review.Rating,
	}
}
