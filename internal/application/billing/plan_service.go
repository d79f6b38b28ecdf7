package billing

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PlanService manages the subscription plan catalog
type PlanService struct {
	planRepo billing.SubscriptionPlanRepository
	logger   *zap.Logger
}

// NewPlanService creates a plan service
func NewPlanService(planRepo billing.SubscriptionPlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{planRepo: planRepo, logger: logger}
}

// CreatePlanInput carries the data for a new plan
type CreatePlanInput struct {
	Name           string                `json:"name" validate:"required,max=100"`
	Description    string                `json:"description" validate:"required"`
	Price          decimal.Decimal       `json:"price" validate:"required"`
	BillingCycle   string                `json:"billing_cycle" validate:"required,oneof=Monthly Quarterly Annual"`
	Features       []billing.PlanFeature `json:"features"`
	PromotionSpots int                   `json:"promotion_spots" validate:"omitempty,min=0"`
}

// UpdatePlanInput carries plan edits
type UpdatePlanInput struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Description    string          `json:"description" validate:"required"`
	Price          decimal.Decimal `json:"price" validate:"required"`
	PromotionSpots int             `json:"promotion_spots" validate:"omitempty,min=0"`
}

// Create adds a new purchasable plan
func (s *PlanService) Create(ctx context.Context, input CreatePlanInput) (*SubscriptionPlanDTO, error) {
	plan, err := billing.NewSubscriptionPlan(input.Name, input.Description, input.Price,
		billing.BillingCycle(input.BillingCycle), input.Features, input.PromotionSpots)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		s.logger.Error("failed to save plan", zap.String("name", input.Name), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to create plan", err)
	}

	s.logger.Info("subscription plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.String("name", plan.Name))

	dto := toPlanDTO(plan)
	return &dto, nil
}

// GetByID returns a plan
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (*SubscriptionPlanDTO, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toPlanDTO(plan)
	return &dto, nil
}

// ListActive returns the plans open to new subscribers
func (s *PlanService) ListActive(ctx context.Context) ([]SubscriptionPlanDTO, error) {
	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("failed to list plans", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list plans", err)
	}
	dtos := make([]SubscriptionPlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, toPlanDTO(p))
	}
	return dtos, nil
}

// Update edits a plan. Price changes affect future periods only.
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, input UpdatePlanInput) (*SubscriptionPlanDTO, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := plan.Update(input.Name, input.Description, input.Price, input.PromotionSpots); err != nil {
		return nil, err
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		s.logger.Error("failed to update plan", zap.String("plan_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update plan", err)
	}
	dto := toPlanDTO(plan)
	return &dto, nil
}

// Retire hides the plan from new subscribers; existing subscriptions
// run to their end dates.
func (s *PlanService) Retire(ctx context.Context, id uuid.UUID) error {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return err
	}
	plan.Retire()
	if err := s.planRepo.Update(ctx, plan); err != nil {
		s.logger.Error("failed to retire plan", zap.String("plan_id", id.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to retire plan", err)
	}
	s.logger.Info("subscription plan retired", zap.String("plan_id", id.String()))
	return nil
}

func (s *PlanService) findPlan(ctx context.Context, id uuid.UUID) (*billing.SubscriptionPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("PLAN_NOT_FOUND", "Subscription plan not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load plan", zap.String("plan_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load plan", err)
	}
	return plan, nil
}
