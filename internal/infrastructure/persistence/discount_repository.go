package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDiscountCampaignRepository implements DiscountCampaignRepository using GORM
type GormDiscountCampaignRepository struct {
	db *gorm.DB
}

// NewGormDiscountCampaignRepository creates a new GormDiscountCampaignRepository
func NewGormDiscountCampaignRepository(db *gorm.DB) *GormDiscountCampaignRepository {
	return &GormDiscountCampaignRepository{db: db}
}

// Save creates a discount campaign
func (r *GormDiscountCampaignRepository) Save(ctx context.Context, campaign *billing.DiscountCampaign) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a campaign by its ID
func (r *GormDiscountCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.DiscountCampaign, error) {
	var campaign billing.DiscountCampaign
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// FindByCode finds a campaign by its redemption code
func (r *GormDiscountCampaignRepository) FindByCode(ctx context.Context, code string) (*billing.DiscountCampaign, error) {
	var campaign billing.DiscountCampaign
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// FindActive finds campaigns whose window covers the given time
func (r *GormDiscountCampaignRepository) FindActive(ctx context.Context, at time.Time, filter shared.Filter) (*shared.Paginated[billing.DiscountCampaign], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&billing.DiscountCampaign{}).
		Where("is_active AND start_date <= ? AND end_date > ?", at, at)

	if appliesTo, ok := filter.Filters["applies_to"]; ok {
		query = query.Where("applies_to = ?", appliesTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var campaigns []billing.DiscountCampaign
	query = applyListOptions(query, filter, CommonSortFields, "created_at")
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(campaigns, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update persists changes to a campaign
func (r *GormDiscountCampaignRepository) Update(ctx context.Context, campaign *billing.DiscountCampaign) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Save(campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// IncrementUsage atomically bumps CurrentUsage while enforcing the
// usage limit. The guarded UPDATE keeps concurrent redemptions from
// exceeding the limit; zero rows affected means the limit is exhausted.
func (r *GormDiscountCampaignRepository) IncrementUsage(ctx context.Context, campaignID uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).
		Model(&billing.DiscountCampaign{}).
		Where("id = ? AND (usage_limit IS NULL OR current_usage < usage_limit)", campaignID).
		UpdateColumn("current_usage", gorm.Expr("current_usage + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := dbFor(ctx, r.db).WithContext(ctx).
			Model(&billing.DiscountCampaign{}).
			Where("id = ?", campaignID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrUsageLimitReached
	}
	return nil
}

// Ensure GormDiscountCampaignRepository implements DiscountCampaignRepository
var _ billing.DiscountCampaignRepository = (*GormDiscountCampaignRepository)(nil)

// GormDiscountUsageRepository implements DiscountUsageRepository using GORM
type GormDiscountUsageRepository struct {
	db *gorm.DB
}

// NewGormDiscountUsageRepository creates a new GormDiscountUsageRepository
func NewGormDiscountUsageRepository(db *gorm.DB) *GormDiscountUsageRepository {
	return &GormDiscountUsageRepository{db: db}
}

// Save records a redemption
func (r *GormDiscountUsageRepository) Save(ctx context.Context, usage *billing.DiscountUsage) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(usage).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByUserAndCampaign finds a user's redemptions of a campaign
func (r *GormDiscountUsageRepository) FindByUserAndCampaign(ctx context.Context, userID, campaignID uuid.UUID) ([]*billing.DiscountUsage, error) {
	var usages []*billing.DiscountUsage
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND campaign_id = ?", userID, campaignID).
		Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// FindByPayment finds redemptions applied to a payment
func (r *GormDiscountUsageRepository) FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]*billing.DiscountUsage, error) {
	var usages []*billing.DiscountUsage
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// Ensure GormDiscountUsageRepository implements DiscountUsageRepository
var _ billing.DiscountUsageRepository = (*GormDiscountUsageRepository)(nil)
