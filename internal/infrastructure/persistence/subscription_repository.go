package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionPlanRepository implements SubscriptionPlanRepository using GORM
type GormSubscriptionPlanRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionPlanRepository creates a new GormSubscriptionPlanRepository
func NewGormSubscriptionPlanRepository(db *gorm.DB) *GormSubscriptionPlanRepository {
	return &GormSubscriptionPlanRepository{db: db}
}

// Save creates a subscription plan
func (r *GormSubscriptionPlanRepository) Save(ctx context.Context, plan *billing.SubscriptionPlan) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(plan).Error
}

// FindByID finds a plan by its ID
func (r *GormSubscriptionPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SubscriptionPlan, error) {
	var plan billing.SubscriptionPlan
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindActive finds all plans currently offered
func (r *GormSubscriptionPlanRepository) FindActive(ctx context.Context) ([]*billing.SubscriptionPlan, error) {
	var plans []*billing.SubscriptionPlan
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("is_active").
		Order("price ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// FindAll finds all plans matching the filter
func (r *GormSubscriptionPlanRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.SubscriptionPlan], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).Model(&billing.SubscriptionPlan{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var plans []billing.SubscriptionPlan
	query = applyListOptions(query, filter, CommonSortFields, "created_at")
	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(plans, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update persists changes to a plan
func (r *GormSubscriptionPlanRepository) Update(ctx context.Context, plan *billing.SubscriptionPlan) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(plan).Error
}

// Ensure GormSubscriptionPlanRepository implements SubscriptionPlanRepository
var _ billing.SubscriptionPlanRepository = (*GormSubscriptionPlanRepository)(nil)

// GormUserSubscriptionRepository implements UserSubscriptionRepository using GORM
type GormUserSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormUserSubscriptionRepository creates a new GormUserSubscriptionRepository
func NewGormUserSubscriptionRepository(db *gorm.DB) *GormUserSubscriptionRepository {
	return &GormUserSubscriptionRepository{db: db}
}

// Save creates a user subscription
func (r *GormUserSubscriptionRepository) Save(ctx context.Context, sub *billing.UserSubscription) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(sub).Error
}

// FindByID finds a subscription by its ID
func (r *GormUserSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.UserSubscription, error) {
	var sub billing.UserSubscription
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByUser finds all subscriptions of a user
func (r *GormUserSubscriptionRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.UserSubscription], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&billing.UserSubscription{}).
		Where("user_id = ?", userID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var subs []billing.UserSubscription
	query = applyListOptions(query, filter, SubscriptionSortFields, "created_at")
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(subs, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindCurrentByUser returns the user's subscription whose period covers
// the given time. Cancelled subscriptions keep their benefits until the
// end of the paid period, so both Active and Cancelled qualify.
func (r *GormUserSubscriptionRepository) FindCurrentByUser(ctx context.Context, userID uuid.UUID, at time.Time) (*billing.UserSubscription, error) {
	var sub billing.UserSubscription
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND status IN ? AND start_date <= ? AND end_date > ?",
			userID,
			[]billing.SubscriptionStatus{billing.SubscriptionStatusActive, billing.SubscriptionStatusCancelled},
			at, at).
		Order("end_date DESC").
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindExpiring finds active subscriptions ending before the given time
func (r *GormUserSubscriptionRepository) FindExpiring(ctx context.Context, before time.Time) ([]*billing.UserSubscription, error) {
	var subs []*billing.UserSubscription
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("status = ? AND end_date < ?", billing.SubscriptionStatusActive, before).
		Order("end_date ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Update persists changes to a subscription
func (r *GormUserSubscriptionRepository) Update(ctx context.Context, sub *billing.UserSubscription) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(sub).Error
}

// Ensure GormUserSubscriptionRepository implements UserSubscriptionRepository
var _ billing.UserSubscriptionRepository = (*GormUserSubscriptionRepository)(nil)

// GormFeeExemptionRepository implements FeeExemptionRepository using GORM
type GormFeeExemptionRepository struct {
	db *gorm.DB
}

// NewGormFeeExemptionRepository creates a new GormFeeExemptionRepository
func NewGormFeeExemptionRepository(db *gorm.DB) *GormFeeExemptionRepository {
	return &GormFeeExemptionRepository{db: db}
}

// Save creates a fee exemption
func (r *GormFeeExemptionRepository) Save(ctx context.Context, exemption *billing.FeeExemption) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(exemption).Error
}

// FindByID finds an exemption by its ID
func (r *GormFeeExemptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FeeExemption, error) {
	var exemption billing.FeeExemption
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&exemption, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &exemption, nil
}

// FindActiveByUser returns exemptions whose window covers the given time
func (r *GormFeeExemptionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID, at time.Time) ([]*billing.FeeExemption, error) {
	var exemptions []*billing.FeeExemption
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND is_active AND start_date <= ? AND end_date > ?", userID, at, at).
		Find(&exemptions).Error; err != nil {
		return nil, err
	}
	return exemptions, nil
}

// FindBySubscription finds exemptions granted by a subscription
func (r *GormFeeExemptionRepository) FindBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*billing.FeeExemption, error) {
	var exemptions []*billing.FeeExemption
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Find(&exemptions).Error; err != nil {
		return nil, err
	}
	return exemptions, nil
}

// Update persists changes to an exemption
func (r *GormFeeExemptionRepository) Update(ctx context.Context, exemption *billing.FeeExemption) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(exemption).Error
}

// Ensure GormFeeExemptionRepository implements FeeExemptionRepository
var _ billing.FeeExemptionRepository = (*GormFeeExemptionRepository)(nil)
