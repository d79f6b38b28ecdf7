package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save creates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *social.Notification) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(notification).Error
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Notification, error) {
	var notification social.Notification
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindByUser finds a user's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, filter shared.Filter) (*shared.Paginated[social.Notification], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Notification{}).
		Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("NOT is_read")
	}
	if notificationType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", notificationType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var notifications []social.Notification
	query = applyListOptions(query, filter, NotificationSortFields, "created_at")
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(notifications, total, filter.Page, filter.PageSize)
	return &result, nil
}

// MarkRead marks a single notification as read
func (r *GormNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead marks all of a user's notifications as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Notification{}).
		Where("user_id = ? AND NOT is_read", userID).
		Update("is_read", true).Error
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Notification{}).
		Where("user_id = ? AND NOT is_read", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete deletes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&social.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormNotificationRepository implements NotificationRepository
var _ social.NotificationRepository = (*GormNotificationRepository)(nil)
