package social

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportReason categorizes what the reporter is flagging
type ReportReason string

const (
	ReasonSpam                 ReportReason = "Spam"
	ReasonInappropriateContent ReportReason = "Inappropriate Content"
	ReasonScamFraud            ReportReason = "Scam/Fraud"
	ReasonHarassment           ReportReason = "Harassment"
	ReasonProhibitedItem       ReportReason = "Prohibited Item/Service"
	ReasonMisleadingListing    ReportReason = "Misleading Listing"
	ReasonOther                ReportReason = "Other"
)

// IsValid checks if the reason is valid
func (r ReportReason) IsValid() bool {
	switch r {
	case ReasonSpam, ReasonInappropriateContent, ReasonScamFraud, ReasonHarassment,
		ReasonProhibitedItem, ReasonMisleadingListing, ReasonOther:
		return true
	}
	return false
}

// ReportStatus represents the moderation state of a report
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "Pending"
	ReportStatusResolved  ReportStatus = "Resolved"
	ReportStatusDismissed ReportStatus = "Dismissed"
)

// IsValid checks if the status is valid
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// Report is a moderation complaint against a user, optionally tied to
// a product or a conversation.
type Report struct {
	shared.BaseAggregateRoot
	ReporterID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReportedID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"reported_id"`
	ProductID      *uuid.UUID   `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ConversationID *uuid.UUID   `gorm:"type:uuid;index" json:"conversation_id,omitempty"`
	Reason         ReportReason `gorm:"type:varchar(30);not null" json:"reason"`
	Description    string       `gorm:"type:text;not null" json:"description"`
	Status         ReportStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
}

// TableName returns the table name for GORM
func (Report) TableName() string {
	return "reports"
}

// NewReport files a pending report
func NewReport(reporterID, reportedID uuid.UUID, productID, conversationID *uuid.UUID,
	reason ReportReason, description string) (*Report, error) {
	if reporterID == uuid.Nil || reportedID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Reporter and reported user are required")
	}
	if reporterID == reportedID {
		return nil, shared.NewDomainError("INVALID_PARTY", "Users cannot report themselves")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid report reason: "+string(reason))
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Report description cannot be empty")
	}

	return &Report{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReporterID:        reporterID,
		ReportedID:        reportedID,
		ProductID:         productID,
		ConversationID:    conversationID,
		Reason:            reason,
		Description:       description,
		Status:            ReportStatusPending,
	}, nil
}

// Resolve closes the report with action taken
func (r *Report) Resolve() error {
	return r.close(ReportStatusResolved)
}

// Dismiss closes the report without action
func (r *Report) Dismiss() error {
	return r.close(ReportStatusDismissed)
}

func (r *Report) close(status ReportStatus) error {
	if r.Status != ReportStatusPending {
		return shared.WrapDomainError("INVALID_STATE", "Report has already been reviewed", shared.ErrInvalidState)
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
