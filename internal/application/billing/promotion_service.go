package billing

import (
	"context"
	"errors"
	"time"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PromotionService schedules promotional slots against a subscriber's
// spot allowance. Spot accounting runs inside a transaction so two
// concurrent bookings cannot both take the last spot.
type PromotionService struct {
	uow         commerce.UnitOfWork
	slotRepo    billing.PromotionalSlotRepository
	subRepo     billing.UserSubscriptionRepository
	planRepo    billing.SubscriptionPlanRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewPromotionService creates a promotion service
func NewPromotionService(
	uow commerce.UnitOfWork,
	slotRepo billing.PromotionalSlotRepository,
	subRepo billing.UserSubscriptionRepository,
	planRepo billing.SubscriptionPlanRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *PromotionService {
	return &PromotionService{
		uow:         uow,
		slotRepo:    slotRepo,
		subRepo:     subRepo,
		planRepo:    planRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateSlotInput schedules a promotion for one of the user's listings
type CreateSlotInput struct {
	ProductID     uuid.UUID             `json:"product_id" validate:"required"`
	PromotionType billing.PromotionType `json:"promotion_type" validate:"required"`
	StartDate     time.Time             `json:"start_date" validate:"required"`
	EndDate       time.Time             `json:"end_date" validate:"required"`
}

// CreateSlot books a promotional slot for the user's product
func (s *PromotionService) CreateSlot(ctx context.Context, userID uuid.UUID, input CreateSlotInput) (*PromotionalSlotDTO, error) {
	var slot *billing.PromotionalSlot

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.WrapDomainError("PRODUCT_NOT_FOUND", "Product not found", shared.ErrNotFound)
			}
			s.logger.Error("failed to load product", zap.String("product_id", input.ProductID.String()), zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to create promotion", err)
		}
		if product.SellerID != userID {
			return shared.WrapDomainError("FORBIDDEN", "Only the seller can promote a listing", shared.ErrForbidden)
		}
		if !product.IsAvailable() {
			return shared.WrapDomainError("INVALID_STATE", "Only available listings can be promoted", shared.ErrInvalidState)
		}

		sub, err := s.subRepo.FindCurrentByUser(ctx, userID, time.Now())
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NO_SUBSCRIPTION", "Promotions require an active subscription")
			}
			s.logger.Error("failed to load subscription", zap.String("user_id", userID.String()), zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to create promotion", err)
		}

		plan, err := s.planRepo.FindByID(ctx, sub.PlanID)
		if err != nil {
			s.logger.Error("failed to load plan", zap.String("plan_id", sub.PlanID.String()), zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to create promotion", err)
		}

		consumed, err := s.slotRepo.CountConsumedBySubscription(ctx, sub.ID)
		if err != nil {
			s.logger.Error("failed to count promotion spots", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to create promotion", err)
		}
		if consumed >= int64(plan.PromotionSpots) {
			return shared.WrapDomainError("NO_PROMOTION_SPOTS",
				"All promotion spots on the current plan are in use", shared.ErrNoPromotionSpots)
		}

		slot, err = billing.NewPromotionalSlot(product.ID, userID, sub.ID, input.PromotionType,
			input.StartDate, input.EndDate)
		if err != nil {
			return err
		}
		if err := s.slotRepo.Save(ctx, slot); err != nil {
			s.logger.Error("failed to save promotional slot", zap.String("product_id", product.ID.String()), zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to create promotion", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("promotional slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("product_id", input.ProductID.String()),
		zap.String("type", string(input.PromotionType)))

	dto := toSlotDTO(slot)
	return &dto, nil
}

// CancelSlot cancels a scheduled or running promotion, freeing its spot
func (s *PromotionService) CancelSlot(ctx context.Context, userID, slotID uuid.UUID) (*PromotionalSlotDTO, error) {
	slot, err := s.findOwnedSlot(ctx, userID, slotID)
	if err != nil {
		return nil, err
	}
	if err := slot.Cancel(); err != nil {
		return nil, err
	}
	if err := s.slotRepo.Update(ctx, slot); err != nil {
		s.logger.Error("failed to update promotional slot", zap.String("slot_id", slotID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to cancel promotion", err)
	}

	s.logger.Info("promotional slot cancelled", zap.String("slot_id", slotID.String()))

	dto := toSlotDTO(slot)
	return &dto, nil
}

// ListByUser returns the user's promotions, newest first
func (s *PromotionService) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (*PromotionListResult, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	result, err := s.slotRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list promotional slots", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list promotions", err)
	}

	items := make([]PromotionalSlotDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toSlotDTO(&result.Items[i]))
	}
	return &PromotionListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ListActiveByType returns product IDs currently promoted in a surface,
// for the storefront to pin and badge.
func (s *PromotionService) ListActiveByType(ctx context.Context, promotionType billing.PromotionType) ([]PromotionalSlotDTO, error) {
	if !promotionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROMOTION_TYPE", "Invalid promotion type: "+string(promotionType))
	}
	slots, err := s.slotRepo.FindActiveByType(ctx, promotionType, time.Now())
	if err != nil {
		s.logger.Error("failed to list active promotions", zap.String("type", string(promotionType)), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list promotions", err)
	}
	items := make([]PromotionalSlotDTO, 0, len(slots))
	for _, slot := range slots {
		items = append(items, toSlotDTO(slot))
	}
	return items, nil
}

// SweepExpired activates scheduled slots whose start has passed and
// ends active slots whose end has passed. Meant to run on a schedule.
func (s *PromotionService) SweepExpired(ctx context.Context) error {
	now := time.Now()
	slots, err := s.slotRepo.FindEnding(ctx, now)
	if err != nil {
		s.logger.Error("failed to load ending promotions", zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to sweep promotions", err)
	}

	for _, slot := range slots {
		switch {
		case slot.Status == billing.PromotionStatusActive && !slot.EndDate.After(now):
			if err := slot.End(); err != nil {
				continue
			}
		case slot.Status == billing.PromotionStatusScheduled && !slot.StartDate.After(now):
			if err := slot.Activate(); err != nil {
				continue
			}
		default:
			continue
		}
		if err := s.slotRepo.Update(ctx, slot); err != nil {
			s.logger.Warn("failed to update promotional slot",
				zap.String("slot_id", slot.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func (s *PromotionService) findOwnedSlot(ctx context.Context, userID, slotID uuid.UUID) (*billing.PromotionalSlot, error) {
	slot, err := s.slotRepo.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("PROMOTION_NOT_FOUND", "Promotional slot not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load promotional slot", zap.String("slot_id", slotID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load promotion", err)
	}
	if slot.UserID != userID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Promotion belongs to another user", shared.ErrForbidden)
	}
	return slot, nil
}
