package social

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationType tells the client what the reference points at.
// The reference is resolved against the table implied by the type:
// Message notifications reference a conversation, Transaction
// notifications a transaction, and so on.
type NotificationType string

const (
	NotificationTypeMessage      NotificationType = "Message"
	NotificationTypeReview       NotificationType = "Review"
	NotificationTypeTransaction  NotificationType = "Transaction"
	NotificationTypeSubscription NotificationType = "Subscription"
	NotificationTypePromotion    NotificationType = "Promotion"
	NotificationTypeReport       NotificationType = "Report"
	NotificationTypeSystem       NotificationType = "System"
)

// IsValid checks if the notification type is valid
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeMessage, NotificationTypeReview, NotificationTypeTransaction,
		NotificationTypeSubscription, NotificationTypePromotion, NotificationTypeReport,
		NotificationTypeSystem:
		return true
	}
	return false
}

// Notification is an in-app message for a user
type Notification struct {
	shared.BaseEntity
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        NotificationType `gorm:"type:varchar(20);not null;index" json:"type"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	ReferenceID *uuid.UUID       `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	IsRead      bool             `gorm:"not null;default:false;index" json:"is_read"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification. System
// announcements carry no reference; every other type must reference
// the record it is about.
func NewNotification(userID uuid.UUID, notificationType NotificationType, title, content string,
	referenceID *uuid.UUID) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if !notificationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid notification type: "+string(notificationType))
	}
	if title == "" || content == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Notification title and content are required")
	}
	if notificationType != NotificationTypeSystem && referenceID == nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Notification of this type must reference a record")
	}

	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Type:        notificationType,
		Title:       title,
		Content:     content,
		ReferenceID: referenceID,
	}, nil
}

// MarkRead flags the notification as seen
func (n *Notification) MarkRead() {
	n.IsRead = true
	n.UpdatedAt = time.Now()
}
