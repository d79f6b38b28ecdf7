package social

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConversationStatus represents the state of a message thread
type ConversationStatus string

const (
	ConversationStatusActive   ConversationStatus = "Active"
	ConversationStatusArchived ConversationStatus = "Archived"
	ConversationStatusReported ConversationStatus = "Reported"
)

// IsValid checks if the status is valid
func (s ConversationStatus) IsValid() bool {
	switch s {
	case ConversationStatusActive, ConversationStatusArchived, ConversationStatusReported:
		return true
	}
	return false
}

// Conversation is the message thread between a buyer and a seller
// about one product. The triple is unique; starting a conversation
// that already exists returns the existing thread.
type Conversation struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_parties" json:"product_id"`
	BuyerID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_parties" json:"buyer_id"`
	SellerID  uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_parties" json:"seller_id"`
	Status    ConversationStatus `gorm:"type:varchar(20);not null;default:'Active';index" json:"status"`
	Messages  []Message          `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// TableName returns the table name for GORM
func (Conversation) TableName() string {
	return "conversations"
}

// NewConversation creates a thread between a buyer and a seller
func NewConversation(productID, buyerID, sellerID uuid.UUID) (*Conversation, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if buyerID == uuid.Nil || sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Buyer and seller are required")
	}
	if buyerID == sellerID {
		return nil, shared.NewDomainError("INVALID_PARTY", "Buyer and seller cannot be the same user")
	}

	return &Conversation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BuyerID:           buyerID,
		SellerID:          sellerID,
		Status:            ConversationStatusActive,
	}, nil
}

// IsParticipant reports whether the user is part of the thread
func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// OtherParty returns the counterpart of the given participant
func (c *Conversation) OtherParty(userID uuid.UUID) (uuid.UUID, error) {
	switch userID {
	case c.BuyerID:
		return c.SellerID, nil
	case c.SellerID:
		return c.BuyerID, nil
	}
	return uuid.Nil, shared.WrapDomainError("FORBIDDEN", "User is not part of this conversation", shared.ErrForbidden)
}

// Archive hides the thread from the default inbox view
func (c *Conversation) Archive() {
	c.Status = ConversationStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Reactivate brings an archived thread back
func (c *Conversation) Reactivate() {
	c.Status = ConversationStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// MarkReported flags the thread for moderation
func (c *Conversation) MarkReported() {
	c.Status = ConversationStatusReported
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
