package billing

import (
	"context"
	"errors"
	"time"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DiscountService manages discount campaigns. Creation and
// deactivation are admin operations; validation serves checkout
// previews.
type DiscountService struct {
	campaignRepo billing.DiscountCampaignRepository
	logger       *zap.Logger
}

// NewDiscountService creates a discount service
func NewDiscountService(campaignRepo billing.DiscountCampaignRepository, logger *zap.Logger) *DiscountService {
	return &DiscountService{campaignRepo: campaignRepo, logger: logger}
}

// CreateCampaignInput describes a new discount campaign
type CreateCampaignInput struct {
	Name          string                    `json:"name" validate:"required,min=1,max=100"`
	Description   *string                   `json:"description" validate:"omitempty,max=2000"`
	DiscountType  billing.DiscountType      `json:"discount_type" validate:"required"`
	DiscountValue decimal.Decimal           `json:"discount_value" validate:"required"`
	Code          *string                   `json:"code" validate:"omitempty,min=1,max=50"`
	AppliesTo     billing.DiscountAppliesTo `json:"applies_to" validate:"required"`
	MinPurchase   *decimal.Decimal          `json:"min_purchase"`
	MaxDiscount   *decimal.Decimal          `json:"max_discount"`
	StartDate     time.Time                 `json:"start_date" validate:"required"`
	EndDate       time.Time                 `json:"end_date" validate:"required"`
	UsageLimit    *int                      `json:"usage_limit" validate:"omitempty,min=1"`
}

// ValidateCodeInput previews a code against an order amount
type ValidateCodeInput struct {
	Code      string                    `json:"code" validate:"required,min=1,max=50"`
	AppliesTo billing.DiscountAppliesTo `json:"applies_to" validate:"required"`
	Amount    decimal.Decimal           `json:"amount" validate:"required"`
}

// CodePreview is the outcome of validating a discount code
type CodePreview struct {
	Campaign       DiscountCampaignDTO `json:"campaign"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	PayableAmount  decimal.Decimal     `json:"payable_amount"`
}

// CreateCampaign creates a discount campaign
func (s *DiscountService) CreateCampaign(ctx context.Context, input CreateCampaignInput) (*DiscountCampaignDTO, error) {
	if input.Code != nil {
		if _, err := s.campaignRepo.FindByCode(ctx, *input.Code); err == nil {
			return nil, shared.WrapDomainError("CODE_TAKEN", "A campaign already uses this code", shared.ErrAlreadyExists)
		} else if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("failed to check code uniqueness", zap.String("code", *input.Code), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to create campaign", err)
		}
	}

	campaign, err := billing.NewDiscountCampaign(input.Name, input.Description, input.DiscountType,
		input.DiscountValue, input.Code, input.AppliesTo,
		input.MinPurchase, input.MaxDiscount, input.StartDate, input.EndDate, input.UsageLimit)
	if err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Save(ctx, campaign); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.WrapDomainError("CODE_TAKEN", "A campaign already uses this code", shared.ErrAlreadyExists)
		}
		s.logger.Error("failed to save campaign", zap.String("name", input.Name), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to create campaign", err)
	}

	s.logger.Info("discount campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("name", campaign.Name))

	dto := toCampaignDTO(campaign)
	return &dto, nil
}

// GetByID returns a campaign
func (s *DiscountService) GetByID(ctx context.Context, campaignID uuid.UUID) (*DiscountCampaignDTO, error) {
	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	dto := toCampaignDTO(campaign)
	return &dto, nil
}

// ListActive returns campaigns redeemable now
func (s *DiscountService) ListActive(ctx context.Context, page, pageSize int) (*CampaignListResult, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	result, err := s.campaignRepo.FindActive(ctx, time.Now(), filter)
	if err != nil {
		s.logger.Error("failed to list campaigns", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list campaigns", err)
	}

	items := make([]DiscountCampaignDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toCampaignDTO(&result.Items[i]))
	}
	return &CampaignListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ValidateCode previews the discount a code would yield on an amount
// without consuming a redemption.
func (s *DiscountService) ValidateCode(ctx context.Context, input ValidateCodeInput) (*CodePreview, error) {
	campaign, err := s.campaignRepo.FindByCode(ctx, input.Code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("DISCOUNT_NOT_FOUND", "Discount code not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load campaign", zap.String("code", input.Code), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to validate code", err)
	}
	if campaign.AppliesTo != input.AppliesTo {
		return nil, shared.NewDomainError("DISCOUNT_NOT_APPLICABLE", "This discount does not apply here")
	}
	if !campaign.IsRedeemableAt(time.Now()) {
		return nil, shared.NewDomainError("DISCOUNT_NOT_REDEEMABLE", "This discount is not currently redeemable")
	}

	discount, err := campaign.ComputeDiscount(input.Amount)
	if err != nil {
		return nil, err
	}

	return &CodePreview{
		Campaign:       toCampaignDTO(campaign),
		DiscountAmount: discount,
		PayableAmount:  input.Amount.Sub(discount),
	}, nil
}

// Deactivate retires a campaign so it can no longer be redeemed
func (s *DiscountService) Deactivate(ctx context.Context, campaignID uuid.UUID) (*DiscountCampaignDTO, error) {
	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	campaign.Deactivate()
	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		s.logger.Error("failed to update campaign", zap.String("campaign_id", campaignID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to deactivate campaign", err)
	}

	s.logger.Info("discount campaign deactivated", zap.String("campaign_id", campaignID.String()))

	dto := toCampaignDTO(campaign)
	return &dto, nil
}

func (s *DiscountService) findCampaign(ctx context.Context, campaignID uuid.UUID) (*billing.DiscountCampaign, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("CAMPAIGN_NOT_FOUND", "Discount campaign not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load campaign", zap.String("campaign_id", campaignID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load campaign", err)
	}
	return campaign, nil
}
