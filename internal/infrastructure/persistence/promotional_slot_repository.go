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

// GormPromotionalSlotRepository implements PromotionalSlotRepository using GORM
type GormPromotionalSlotRepository struct {
	db *gorm.DB
}

// NewGormPromotionalSlotRepository creates a new GormPromotionalSlotRepository
func NewGormPromotionalSlotRepository(db *gorm.DB) *GormPromotionalSlotRepository {
	return &GormPromotionalSlotRepository{db: db}
}

// Save creates a promotional slot
func (r *GormPromotionalSlotRepository) Save(ctx context.Context, slot *billing.PromotionalSlot) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(slot).Error
}

// FindByID finds a slot by its ID
func (r *GormPromotionalSlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PromotionalSlot, error) {
	var slot billing.PromotionalSlot
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// FindByUser finds all slots booked by a user
func (r *GormPromotionalSlotRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.PromotionalSlot], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&billing.PromotionalSlot{}).
		Where("user_id = ?", userID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var slots []billing.PromotionalSlot
	query = applyListOptions(query, filter, PromotionalSlotSortFields, "created_at")
	if err := query.Find(&slots).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(slots, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindActiveByType finds active slots of a type whose window covers
// the given time, for surfacing promoted listings
func (r *GormPromotionalSlotRepository) FindActiveByType(ctx context.Context, promotionType billing.PromotionType, at time.Time) ([]*billing.PromotionalSlot, error) {
	var slots []*billing.PromotionalSlot
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("promotion_type = ? AND status = ? AND start_date <= ? AND end_date > ?",
			promotionType, billing.PromotionStatusActive, at, at).
		Order("start_date ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// CountConsumedBySubscription counts scheduled and active slots charged
// against a subscription's spot allowance
func (r *GormPromotionalSlotRepository) CountConsumedBySubscription(ctx context.Context, subscriptionID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Model(&billing.PromotionalSlot{}).
		Where("subscription_id = ? AND status IN ?", subscriptionID,
			[]billing.PromotionStatus{billing.PromotionStatusScheduled, billing.PromotionStatusActive}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindEnding finds slots due for a status sweep: active slots past
// their end date and scheduled slots past their start date
func (r *GormPromotionalSlotRepository) FindEnding(ctx context.Context, before time.Time) ([]*billing.PromotionalSlot, error) {
	var slots []*billing.PromotionalSlot
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("(status = ? AND end_date < ?) OR (status = ? AND start_date <= ?)",
			billing.PromotionStatusActive, before, billing.PromotionStatusScheduled, before).
		Order("end_date ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// Update persists changes to a slot
func (r *GormPromotionalSlotRepository) Update(ctx context.Context, slot *billing.PromotionalSlot) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(slot).Error
}

// Ensure GormPromotionalSlotRepository implements PromotionalSlotRepository
var _ billing.PromotionalSlotRepository = (*GormPromotionalSlotRepository)(nil)
