package social

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationService handles buyer-seller messaging
type ConversationService struct {
	convRepo    social.ConversationRepository
	messageRepo social.MessageRepository
	productRepo catalog.ProductRepository
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	convRepo social.ConversationRepository,
	messageRepo social.MessageRepository,
	productRepo catalog.ProductRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		productRepo: productRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// StartConversationInput carries the data to open a thread
type StartConversationInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Message   *string   `json:"message,omitempty" validate:"omitempty,min=1,max=4000"`
}

// SendMessageInput carries the data to post a message
type SendMessageInput struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// Start opens a thread between the buyer and the product's seller.
// The (product, buyer, seller) triple is unique; starting an existing
// thread returns it instead of failing.
func (s *ConversationService) Start(ctx context.Context, buyerID uuid.UUID, input StartConversationInput) (*ConversationDTO, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("PRODUCT_NOT_FOUND", "Product not found", err)
		}
		s.logger.Error("failed to load product", zap.String("product_id", input.ProductID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load product", err)
	}
	if product.SellerID == buyerID {
		return nil, shared.NewDomainError("OWN_PRODUCT", "Cannot start a conversation about your own listing")
	}

	conversation, err := social.NewConversation(product.ID, buyerID, product.SellerID)
	if err != nil {
		return nil, err
	}

	if err := s.convRepo.Save(ctx, conversation); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			existing, findErr := s.convRepo.FindByParties(ctx, product.ID, buyerID, product.SellerID)
			if findErr != nil {
				s.logger.Error("failed to load existing conversation", zap.Error(findErr))
				return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load conversation", findErr)
			}
			conversation = existing
		} else {
			s.logger.Error("failed to save conversation", zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to save conversation", err)
		}
	}

	if input.Message != nil && *input.Message != "" {
		if _, err := s.post(ctx, conversation, buyerID, *input.Message); err != nil {
			return nil, err
		}
	}

	s.logger.Info("conversation started",
		zap.String("conversation_id", conversation.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("buyer_id", buyerID.String()))

	dto := toConversationDTO(conversation)
	return &dto, nil
}

// SendMessage posts a message to a thread the user participates in.
// Sending into an archived thread reactivates it.
func (s *ConversationService) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, input SendMessageInput) (*MessageDTO, error) {
	conversation, err := s.findVisible(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	message, err := s.post(ctx, conversation, userID, input.Content)
	if err != nil {
		return nil, err
	}

	dto := toMessageDTO(message)
	return &dto, nil
}

func (s *ConversationService) post(ctx context.Context, conversation *social.Conversation, senderID uuid.UUID, content string) (*social.Message, error) {
	if conversation.Status == social.ConversationStatusArchived {
		conversation.Reactivate()
		if err := s.convRepo.Update(ctx, conversation); err != nil {
			s.logger.Error("failed to reactivate conversation", zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update conversation", err)
		}
	}

	message, err := social.NewMessage(conversation.ID, senderID, content)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, message); err != nil {
		s.logger.Error("failed to save message", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to save message", err)
	}

	recipient, err := conversation.OtherParty(senderID)
	if err != nil {
		return nil, err
	}
	if err := s.eventBus.Publish(ctx, social.NewMessageSentEvent(message, recipient)); err != nil {
		s.logger.Warn("failed to publish message event", zap.String("message_id", message.ID.String()), zap.Error(err))
	}

	return message, nil
}

// ListByUser returns the user's threads, most recently active first
func (s *ConversationService) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (*ConversationListResult, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	result, err := s.convRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list conversations", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list conversations", err)
	}

	items := make([]ConversationDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toConversationDTO(&result.Items[i]))
	}
	return &ConversationListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// GetMessages returns a page of the thread and marks messages sent to
// the reader as read
func (s *ConversationService) GetMessages(ctx context.Context, userID, conversationID uuid.UUID, page, pageSize int) (*MessageListResult, error) {
	conversation, err := s.findVisible(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	result, err := s.messageRepo.FindByConversation(ctx, conversation.ID, filter)
	if err != nil {
		s.logger.Error("failed to list messages", zap.String("conversation_id", conversation.ID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list messages", err)
	}

	if err := s.messageRepo.MarkConversationRead(ctx, conversation.ID, userID); err != nil {
		s.logger.Warn("failed to mark conversation read", zap.String("conversation_id", conversation.ID.String()), zap.Error(err))
	}

	items := make([]MessageDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toMessageDTO(&result.Items[i]))
	}
	return &MessageListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// UnreadCount returns how many messages sent to the user are unread
func (s *ConversationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count unread messages", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, shared.WrapDomainError("INTERNAL_ERROR", "Failed to count unread messages", err)
	}
	return count, nil
}

// Archive hides a thread from the user's default inbox view
func (s *ConversationService) Archive(ctx context.Context, userID, conversationID uuid.UUID) error {
	conversation, err := s.findVisible(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	conversation.Archive()
	if err := s.convRepo.Update(ctx, conversation); err != nil {
		s.logger.Error("failed to archive conversation", zap.String("conversation_id", conversationID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to update conversation", err)
	}

	s.logger.Info("conversation archived", zap.String("conversation_id", conversationID.String()))
	return nil
}

func (s *ConversationService) findVisible(ctx context.Context, conversationID, userID uuid.UUID) (*social.Conversation, error) {
	conversation, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("CONVERSATION_NOT_FOUND", "Conversation not found", err)
		}
		s.logger.Error("failed to load conversation", zap.String("conversation_id", conversationID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load conversation", err)
	}
	if !conversation.IsParticipant(userID) {
		return nil, shared.WrapDomainError("FORBIDDEN", "User is not part of this conversation", shared.ErrForbidden)
	}
	return conversation, nil
}
