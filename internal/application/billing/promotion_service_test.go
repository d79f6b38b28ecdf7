package billing

import (
	"context"
	"testing"
	"time"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type passthroughUnitOfWork struct{}

func (passthroughUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type promotionFixture struct {
	slotRepo    *MockPromotionalSlotRepository
	subRepo     *MockUserSubscriptionRepository
	planRepo    *MockSubscriptionPlanRepository
	productRepo *MockProductRepository
	service     *PromotionService
}

func newPromotionFixture() *promotionFixture {
	f := &promotionFixture{
		slotRepo:    new(MockPromotionalSlotRepository),
		subRepo:     new(MockUserSubscriptionRepository),
		planRepo:    new(MockSubscriptionPlanRepository),
		productRepo: new(MockProductRepository),
	}
	f.service = NewPromotionService(passthroughUnitOfWork{}, f.slotRepo, f.subRepo, f.planRepo,
		f.productRepo, zap.NewNop())
	return f
}

func newSellerListing(t *testing.T, sellerID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Desk lamp", "Barely used", decimal.NewFromInt(15),
		catalog.ConditionGood, sellerID, uuid.New(), false, catalog.VisibilityCampusOnly)
	require.NoError(t, err)
	return product
}

func activeSubscription(t *testing.T, userID, planID uuid.UUID) *billing.UserSubscription {
	t.Helper()
	sub, err := billing.NewUserSubscription(userID, planID, nil, billing.BillingCycleMonthly)
	require.NoError(t, err)
	require.NoError(t, sub.Activate())
	sub.ClearDomainEvents()
	return sub
}

func TestPromotionService_CreateSlot(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	start := time.Now().Add(time.Hour)
	end := start.Add(7 * 24 * time.Hour)

	t.Run("books a slot within the plan allowance", func(t *testing.T) {
		f := newPromotionFixture()
		product := newSellerListing(t, sellerID)
		plan := newMonthlyPlan(t, "9.99", 3)
		sub := activeSubscription(t, sellerID, plan.ID)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.subRepo.On("FindCurrentByUser", ctx, sellerID, mock.AnythingOfType("time.Time")).Return(sub, nil)
		f.planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)
		f.slotRepo.On("CountConsumedBySubscription", ctx, sub.ID).Return(int64(1), nil)
		f.slotRepo.On("Save", ctx, mock.MatchedBy(func(slot *billing.PromotionalSlot) bool {
			return slot.ProductID == product.ID && slot.Status == billing.PromotionStatusScheduled
		})).Return(nil)

		dto, err := f.service.CreateSlot(ctx, sellerID, CreateSlotInput{
			ProductID:     product.ID,
			PromotionType: billing.PromotionTypeFeatured,
			StartDate:     start,
			EndDate:       end,
		})

		require.NoError(t, err)
		assert.Equal(t, string(billing.PromotionStatusScheduled), dto.Status)
		assert.Equal(t, sub.ID, dto.SubscriptionID)
	})

	t.Run("a slot starting now is active immediately", func(t *testing.T) {
		f := newPromotionFixture()
		product := newSellerListing(t, sellerID)
		plan := newMonthlyPlan(t, "9.99", 3)
		sub := activeSubscription(t, sellerID, plan.ID)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.subRepo.On("FindCurrentByUser", ctx, sellerID, mock.AnythingOfType("time.Time")).Return(sub, nil)
		f.planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)
		f.slotRepo.On("CountConsumedBySubscription", ctx, sub.ID).Return(int64(0), nil)
		f.slotRepo.On("Save", ctx, mock.AnythingOfType("*billing.PromotionalSlot")).Return(nil)

		dto, err := f.service.CreateSlot(ctx, sellerID, CreateSlotInput{
			ProductID:     product.ID,
			PromotionType: billing.PromotionTypeHomepage,
			StartDate:     time.Now().Add(-time.Minute),
			EndDate:       end,
		})

		require.NoError(t, err)
		assert.Equal(t, string(billing.PromotionStatusActive), dto.Status)
	})

	t.Run("full allowance blocks new slots", func(t *testing.T) {
		f := newPromotionFixture()
		product := newSellerListing(t, sellerID)
		plan := newMonthlyPlan(t, "9.99", 2)
		sub := activeSubscription(t, sellerID, plan.ID)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.subRepo.On("FindCurrentByUser", ctx, sellerID, mock.AnythingOfType("time.Time")).Return(sub, nil)
		f.planRepo.On("FindByID", ctx, plan.ID).Return(plan, nil)
		f.slotRepo.On("CountConsumedBySubscription", ctx, sub.ID).Return(int64(2), nil)

		_, err := f.service.CreateSlot(ctx, sellerID, CreateSlotInput{
			ProductID:     product.ID,
			PromotionType: billing.PromotionTypeFeatured,
			StartDate:     start,
			EndDate:       end,
		})

		assert.ErrorIs(t, err, shared.ErrNoPromotionSpots)
		f.slotRepo.AssertNotCalled(t, "Save", ctx, mock.Anything)
	})

	t.Run("promotions require a subscription", func(t *testing.T) {
		f := newPromotionFixture()
		product := newSellerListing(t, sellerID)

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.subRepo.On("FindCurrentByUser", ctx, sellerID, mock.AnythingOfType("time.Time")).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateSlot(ctx, sellerID, CreateSlotInput{
			ProductID:     product.ID,
			PromotionType: billing.PromotionTypeFeatured,
			StartDate:     start,
			EndDate:       end,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_SUBSCRIPTION", domainErr.Code)
	})

	t.Run("only the seller can promote a listing", func(t *testing.T) {
		f := newPromotionFixture()
		product := newSellerListing(t, uuid.New())
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := f.service.CreateSlot(ctx, sellerID, CreateSlotInput{
			ProductID:     product.ID,
			PromotionType: billing.PromotionTypeFeatured,
			StartDate:     start,
			EndDate:       end,
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("sold listings cannot be promoted", func(t *testing.T) {
		f := newPromotionFixture()
		product := newSellerListing(t, sellerID)
		require.NoError(t, product.Reserve())
		require.NoError(t, product.MarkSold())
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := f.service.CreateSlot(ctx, sellerID, CreateSlotInput{
			ProductID:     product.ID,
			PromotionType: billing.PromotionTypeFeatured,
			StartDate:     start,
			EndDate:       end,
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestPromotionService_CancelSlot(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("cancelling frees the spot", func(t *testing.T) {
		f := newPromotionFixture()
		slot, err := billing.NewPromotionalSlot(uuid.New(), sellerID, uuid.New(),
			billing.PromotionTypeFeatured, time.Now().Add(time.Hour), time.Now().Add(48*time.Hour))
		require.NoError(t, err)

		f.slotRepo.On("FindByID", ctx, slot.ID).Return(slot, nil)
		f.slotRepo.On("Update", ctx, slot).Return(nil)

		dto, err := f.service.CancelSlot(ctx, sellerID, slot.ID)

		require.NoError(t, err)
		assert.Equal(t, string(billing.PromotionStatusCancelled), dto.Status)
		assert.False(t, slot.ConsumesSpot())
	})

	t.Run("ended promotions cannot be cancelled", func(t *testing.T) {
		f := newPromotionFixture()
		slot, err := billing.NewPromotionalSlot(uuid.New(), sellerID, uuid.New(),
			billing.PromotionTypeFeatured, time.Now().Add(-48*time.Hour), time.Now().Add(48*time.Hour))
		require.NoError(t, err)
		require.NoError(t, slot.End())

		f.slotRepo.On("FindByID", ctx, slot.ID).Return(slot, nil)

		_, err = f.service.CancelSlot(ctx, sellerID, slot.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestPromotionService_SweepExpired(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	f := newPromotionFixture()
	running, err := billing.NewPromotionalSlot(uuid.New(), sellerID, uuid.New(),
		billing.PromotionTypeFeatured, time.Now().Add(-72*time.Hour), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	scheduled, err := billing.NewPromotionalSlot(uuid.New(), sellerID, uuid.New(),
		billing.PromotionTypeHomepage, time.Now().Add(time.Hour), time.Now().Add(72*time.Hour))
	require.NoError(t, err)
	scheduled.StartDate = time.Now().Add(-time.Minute)

	f.slotRepo.On("FindEnding", ctx, mock.AnythingOfType("time.Time")).
		Return([]*billing.PromotionalSlot{running, scheduled}, nil)
	f.slotRepo.On("Update", ctx, mock.AnythingOfType("*billing.PromotionalSlot")).Return(nil)

	err = f.service.SweepExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, billing.PromotionStatusEnded, running.Status)
	assert.Equal(t, billing.PromotionStatusActive, scheduled.Status)
}
