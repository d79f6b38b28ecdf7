package social

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
)

// ConversationDTO is the API representation of a message thread
type ConversationDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageDTO is the API representation of a message
type MessageDTO struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReviewDTO is the API representation of a review
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	ReviewedID uuid.UUID `json:"reviewed_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReportDTO is the API representation of a report
type ReportDTO struct {
	ID             uuid.UUID  `json:"id"`
	ReporterID     uuid.UUID  `json:"reporter_id"`
	ReportedID     uuid.UUID  `json:"reported_id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	Reason         string     `json:"reason"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NotificationReference points the client at the record a
// notification is about. Kind is derived from the notification type.
type NotificationReference struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// NotificationDTO is the API representation of a notification
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Reference *NotificationReference `json:"reference,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

// ConversationListResult is a paginated thread listing
type ConversationListResult struct {
	Items      []ConversationDTO `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// MessageListResult is a paginated message listing
type MessageListResult struct {
	Items      []MessageDTO `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// ReviewListResult is a paginated review listing
type ReviewListResult struct {
	Items      []ReviewDTO `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// ReportListResult is a paginated report listing
type ReportListResult struct {
	Items      []ReportDTO `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NotificationListResult is a paginated notification listing
type NotificationListResult struct {
	Items      []NotificationDTO `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func toConversationDTO(c *social.Conversation) ConversationDTO {
	return ConversationDTO{
		ID:        c.ID,
		ProductID: c.ProductID,
		BuyerID:   c.BuyerID,
		SellerID:  c.SellerID,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toMessageDTO(m *social.Message) MessageDTO {
	return MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

func toReviewDTO(r *social.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID,
		ReviewerID: r.ReviewerID,
		ReviewedID: r.ReviewedID,
		ProductID:  r.ProductID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func toReportDTO(r *social.Report) ReportDTO {
	return ReportDTO{
		ID:             r.ID,
		ReporterID:     r.ReporterID,
		ReportedID:     r.ReportedID,
		ProductID:      r.ProductID,
		ConversationID: r.ConversationID,
		Reason:         string(r.Reason),
		Description:    r.Description,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
	}
}

// referenceKinds maps notification types to the table their reference
// id resolves against
var referenceKinds = map[social.NotificationType]string{
	social.NotificationTypeMessage:      "conversation",
	social.NotificationTypeReview:       "review",
	social.NotificationTypeTransaction:  "transaction",
	social.NotificationTypeSubscription: "subscription",
	social.NotificationTypePromotion:    "promotional_slot",
	social.NotificationTypeReport:       "report",
}

func toNotificationDTO(n *social.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.ReferenceID != nil {
		if kind, ok := referenceKinds[n.Type]; ok {
			dto.Reference = &NotificationReference{Kind: kind, ID: *n.ReferenceID}
		}
	}
	return dto
}
