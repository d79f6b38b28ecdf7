package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConversationRepository implements ConversationRepository using GORM
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// Save creates a conversation. The (product, buyer, seller) triple is
// unique; a second insert returns ErrAlreadyExists so the caller can
// fall back to the existing thread.
func (r *GormConversationRepository) Save(ctx context.Context, conversation *social.Conversation) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a conversation by its ID
func (r *GormConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Conversation, error) {
	var conversation social.Conversation
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// FindByParties finds a conversation by its unique triple
func (r *GormConversationRepository) FindByParties(ctx context.Context, productID, buyerID, sellerID uuid.UUID) (*social.Conversation, error) {
	var conversation social.Conversation
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("product_id = ? AND buyer_id = ? AND seller_id = ?", productID, buyerID, sellerID).
		First(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// FindByUser finds conversations the user participates in
func (r *GormConversationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Conversation], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Conversation{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var conversations []social.Conversation
	query = applyListOptions(query, filter, CommonSortFields, "updated_at")
	if err := query.Find(&conversations).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(conversations, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update persists changes to a conversation
func (r *GormConversationRepository) Update(ctx context.Context, conversation *social.Conversation) error {
	return dbFor(ctx, r.db).WithContext(ctx).Omit("Messages").Save(conversation).Error
}

// Ensure GormConversationRepository implements ConversationRepository
var _ social.ConversationRepository = (*GormConversationRepository)(nil)

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Save creates a message
func (r *GormMessageRepository) Save(ctx context.Context, message *social.Message) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(message).Error
}

// FindByID finds a message by its ID
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Message, error) {
	var message social.Message
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindByConversation finds the messages of a thread, oldest first
func (r *GormMessageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Message], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Message{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	query = query.Order("created_at ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var messages []social.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(messages, total, filter.Page, filter.PageSize)
	return &result, nil
}

// MarkConversationRead marks every message in a thread that was sent
// to (not by) the given user as read
func (r *GormMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	return dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND NOT is_read", conversationID, readerID).
		Update("is_read", true).Error
}

// CountUnread counts messages addressed to the user that are unread
func (r *GormMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.buyer_id = ? OR conversations.seller_id = ?) AND messages.sender_id <> ? AND NOT messages.is_read",
			userID, userID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormMessageRepository implements MessageRepository
var _ social.MessageRepository = (*GormMessageRepository)(nil)
