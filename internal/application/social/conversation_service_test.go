package social

import (
	"context"
	"errors"
	"testing"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Save(ctx context.Context, conversation *social.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Conversation), args.Error(1)
}

func (m *MockConversationRepository) FindByParties(ctx context.Context, productID, buyerID, sellerID uuid.UUID) (*social.Conversation, error) {
	args := m.Called(ctx, productID, buyerID, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Conversation), args.Error(1)
}

func (m *MockConversationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Conversation], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[social.Conversation]), args.Error(1)
}

func (m *MockConversationRepository) Update(ctx context.Context, conversation *social.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Save(ctx context.Context, message *social.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Message), args.Error(1)
}

func (m *MockMessageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Message], error) {
	args := m.Called(ctx, conversationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[social.Message]), args.Error(1)
}

func (m *MockMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

func (m *MockMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Save(ctx context.Context, review *social.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByReviewed(ctx context.Context, reviewedID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Review], error) {
	args := m.Called(ctx, reviewedID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[social.Review]), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Review], error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[social.Review]), args.Error(1)
}

func (m *MockReviewRepository) FindByTriple(ctx context.Context, reviewerID, reviewedID, productID uuid.UUID) (*social.Review, error) {
	args := m.Called(ctx, reviewerID, reviewedID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageRating(ctx context.Context, reviewedID uuid.UUID) (float64, bool, error) {
	args := m.Called(ctx, reviewedID)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *social.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(ctx context.Context, report *social.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Report), args.Error(1)
}

func (m *MockReportRepository) FindByStatus(ctx context.Context, status social.ReportStatus, filter shared.Filter) (*shared.Paginated[social.Report], error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[social.Report]), args.Error(1)
}

func (m *MockReportRepository) FindByReported(ctx context.Context, reportedID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Report], error) {
	args := m.Called(ctx, reportedID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[social.Report]), args.Error(1)
}

func (m *MockReportRepository) Update(ctx context.Context, report *social.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Save(ctx context.Context, notification *social.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) (*shared.Paginated[social.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[social.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, search catalog.ProductSearch) (*shared.Paginated[catalog.Product], error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByStudentID(ctx context.Context, studentID string) (*identity.User, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByCampus(ctx context.Context, campusID uuid.UUID, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	args := m.Called(ctx, campusID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.User]), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.User]), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type conversationFixture struct {
	convRepo    *MockConversationRepository
	messageRepo *MockMessageRepository
	productRepo *MockProductRepository
	eventBus    *MockEventPublisher
	service     *ConversationService
}

func newConversationFixture() *conversationFixture {
	f := &conversationFixture{
		convRepo:    new(MockConversationRepository),
		messageRepo: new(MockMessageRepository),
		productRepo: new(MockProductRepository),
		eventBus:    new(MockEventPublisher),
	}
	f.service = NewConversationService(f.convRepo, f.messageRepo, f.productRepo, f.eventBus, zap.NewNop())
	return f
}

func newListing(t *testing.T, sellerID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Graphing calculator", "TI-84, lightly used",
		decimal.NewFromInt(40), catalog.ConditionGood, sellerID, uuid.New(), false, catalog.VisibilityCampusOnly)
	require.NoError(t, err)
	return product
}

func newThread(t *testing.T, buyerID, sellerID uuid.UUID) *social.Conversation {
	t.Helper()
	conversation, err := social.NewConversation(uuid.New(), buyerID, sellerID)
	require.NoError(t, err)
	return conversation
}

func strPtr(s string) *string { return &s }

func TestConversationService_Start(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("opens a thread with an initial message", func(t *testing.T) {
		f := newConversationFixture()
		product := newListing(t, sellerID)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.convRepo.On("Save", ctx, mock.AnythingOfType("*social.Conversation")).Return(nil)
		f.messageRepo.On("Save", ctx, mock.MatchedBy(func(m *social.Message) bool {
			return m.SenderID == buyerID && m.Content == "Is this still available?"
		})).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		dto, err := f.service.Start(ctx, buyerID, StartConversationInput{
			ProductID: product.ID,
			Message:   strPtr("Is this still available?"),
		})

		require.NoError(t, err)
		assert.Equal(t, product.ID, dto.ProductID)
		assert.Equal(t, buyerID, dto.BuyerID)
		assert.Equal(t, sellerID, dto.SellerID)
		assert.Equal(t, string(social.ConversationStatusActive), dto.Status)
		f.messageRepo.AssertExpectations(t)
	})

	t.Run("returns the existing thread for the same triple", func(t *testing.T) {
		f := newConversationFixture()
		product := newListing(t, sellerID)
		existing, err := social.NewConversation(product.ID, buyerID, sellerID)
		require.NoError(t, err)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.convRepo.On("Save", ctx, mock.Anything).Return(shared.ErrAlreadyExists)
		f.convRepo.On("FindByParties", ctx, product.ID, buyerID, sellerID).Return(existing, nil)

		dto, err := f.service.Start(ctx, buyerID, StartConversationInput{ProductID: product.ID})

		require.NoError(t, err)
		assert.Equal(t, existing.ID, dto.ID)
	})

	t.Run("rejects messaging your own listing", func(t *testing.T) {
		f := newConversationFixture()
		product := newListing(t, buyerID)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := f.service.Start(ctx, buyerID, StartConversationInput{ProductID: product.ID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OWN_PRODUCT", domainErr.Code)
		f.convRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails when the product does not exist", func(t *testing.T) {
		f := newConversationFixture()
		productID := uuid.New()

		f.productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Start(ctx, buyerID, StartConversationInput{ProductID: productID})

		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestConversationService_SendMessage(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("posts a message and notifies the other party", func(t *testing.T) {
		f := newConversationFixture()
		conversation := newThread(t, buyerID, sellerID)

		f.convRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)
		f.messageRepo.On("Save", ctx, mock.AnythingOfType("*social.Message")).Return(nil)
		f.eventBus.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			sent, ok := events[0].(*social.MessageSentEvent)
			return ok && sent.RecipientID == sellerID && sent.SenderID == buyerID
		})).Return(nil)

		dto, err := f.service.SendMessage(ctx, buyerID, conversation.ID, SendMessageInput{Content: "Can you do 35?"})

		require.NoError(t, err)
		assert.Equal(t, "Can you do 35?", dto.Content)
		assert.False(t, dto.IsRead)
		f.eventBus.AssertExpectations(t)
	})

	t.Run("reactivates an archived thread", func(t *testing.T) {
		f := newConversationFixture()
		conversation := newThread(t, buyerID, sellerID)
		conversation.Archive()

		f.convRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)
		f.convRepo.On("Update", ctx, mock.MatchedBy(func(c *social.Conversation) bool {
			return c.Status == social.ConversationStatusActive
		})).Return(nil)
		f.messageRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		_, err := f.service.SendMessage(ctx, sellerID, conversation.ID, SendMessageInput{Content: "Still here"})

		require.NoError(t, err)
		f.convRepo.AssertExpectations(t)
	})

	t.Run("rejects non-participants", func(t *testing.T) {
		f := newConversationFixture()
		conversation := newThread(t, buyerID, sellerID)

		f.convRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)

		_, err := f.service.SendMessage(ctx, uuid.New(), conversation.ID, SendMessageInput{Content: "hi"})

		assert.True(t, errors.Is(err, shared.ErrForbidden))
		f.messageRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		f := newConversationFixture()
		conversation := newThread(t, buyerID, sellerID)

		f.convRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)

		_, err := f.service.SendMessage(ctx, buyerID, conversation.ID, SendMessageInput{Content: ""})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CONTENT", domainErr.Code)
	})
}

func TestConversationService_GetMessages(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("returns the page and marks the reader's messages read", func(t *testing.T) {
		f := newConversationFixture()
		conversation := newThread(t, buyerID, sellerID)
		msg, err := social.NewMessage(conversation.ID, sellerID, "Sure, 35 works")
		require.NoError(t, err)
		page := shared.NewPaginated([]social.Message{*msg}, 1, 1, 20)

		f.convRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)
		f.messageRepo.On("FindByConversation", ctx, conversation.ID, mock.Anything).Return(&page, nil)
		f.messageRepo.On("MarkConversationRead", ctx, conversation.ID, buyerID).Return(nil)

		result, err := f.service.GetMessages(ctx, buyerID, conversation.ID, 1, 20)

		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Sure, 35 works", result.Items[0].Content)
		f.messageRepo.AssertExpectations(t)
	})

	t.Run("rejects non-participants", func(t *testing.T) {
		f := newConversationFixture()
		conversation := newThread(t, buyerID, sellerID)

		f.convRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)

		_, err := f.service.GetMessages(ctx, uuid.New(), conversation.ID, 1, 20)

		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})
}

func TestConversationService_Archive(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("archives a thread for a participant", func(t *testing.T) {
		f := newConversationFixture()
		conversation := newThread(t, buyerID, sellerID)

		f.convRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil)
		f.convRepo.On("Update", ctx, mock.MatchedBy(func(c *social.Conversation) bool {
			return c.Status == social.ConversationStatusArchived
		})).Return(nil)

		err := f.service.Archive(ctx, sellerID, conversation.ID)

		require.NoError(t, err)
		f.convRepo.AssertExpectations(t)
	})
}

func TestConversationService_UnreadCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	f := newConversationFixture()
	f.messageRepo.On("CountUnread", ctx, userID).Return(int64(3), nil)

	count, err := f.service.UnreadCount(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
