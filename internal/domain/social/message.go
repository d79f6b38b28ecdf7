package social

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Message is one line of a conversation. Content is immutable once
// sent; only the read flag changes.
type Message struct {
	shared.BaseEntity
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsRead         bool      `gorm:"not null;default:false;index" json:"is_read"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// NewMessage creates an unread message in a conversation
func NewMessage(conversationID, senderID uuid.UUID, content string) (*Message, error) {
	if conversationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONVERSATION", "Conversation is required")
	}
	if senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SENDER", "Sender is required")
	}
	if content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Message content cannot be empty")
	}

	return &Message{
		BaseEntity:     shared.NewBaseEntity(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}, nil
}

// MarkRead flags the message as read by the recipient
func (m *Message) MarkRead() {
	m.IsRead = true
	m.UpdatedAt = time.Now()
}
