package billing

import (
	"context"
	"testing"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPlanService() (*MockSubscriptionPlanRepository, *PlanService) {
	repo := new(MockSubscriptionPlanRepository)
	return repo, NewPlanService(repo, zap.NewNop())
}

func TestPlanService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active plan", func(t *testing.T) {
		repo, service := newPlanService()
		repo.On("Save", ctx, mock.MatchedBy(func(p *billing.SubscriptionPlan) bool {
			return p.IsActive && p.BillingCycle == billing.BillingCycleMonthly
		})).Return(nil)

		dto, err := service.Create(ctx, CreatePlanInput{
			Name:           "Seller Plus",
			Description:    "No transaction fees",
			Price:          requireDecimal(t, "9.99"),
			BillingCycle:   "Monthly",
			Features:       []billing.PlanFeature{{Description: "fee_exemption"}},
			PromotionSpots: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, "Seller Plus", dto.Name)
		assert.Equal(t, 3, dto.PromotionSpots)
		assert.True(t, dto.Price.Equal(requireDecimal(t, "9.99")))
	})

	t.Run("invalid cycle is rejected", func(t *testing.T) {
		_, service := newPlanService()

		_, err := service.Create(ctx, CreatePlanInput{
			Name:         "Odd",
			Description:  "Odd cycle",
			Price:        requireDecimal(t, "5.00"),
			BillingCycle: "Fortnightly",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_BILLING_CYCLE", domainErr.Code)
	})
}

func TestPlanService_Retire(t *testing.T) {
	ctx := context.Background()

	t.Run("retired plans drop out of the active list", func(t *testing.T) {
		repo, service := newPlanService()
		plan := newMonthlyPlan(t, "9.99", 2)

		repo.On("FindByID", ctx, plan.ID).Return(plan, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *billing.SubscriptionPlan) bool {
			return !p.IsActive
		})).Return(nil)

		err := service.Retire(ctx, plan.ID)

		require.NoError(t, err)
		assert.False(t, plan.IsActive)
	})

	t.Run("unknown plan", func(t *testing.T) {
		repo, service := newPlanService()
		missing := uuid.New()
		repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		err := service.Retire(ctx, missing)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
