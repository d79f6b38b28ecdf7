package social

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService handles a user's in-app notifications
type NotificationService struct {
	notifRepo social.NotificationRepository
	logger    *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifRepo social.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, logger: logger}
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) (*NotificationListResult, error) {
	filter := listFilter(page, pageSize)
	result, err := s.notifRepo.FindByUser(ctx, userID, unreadOnly, filter)
	if err != nil {
		s.logger.Error("failed to list notifications", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list notifications", err)
	}

	items := make([]NotificationDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toNotificationDTO(&result.Items[i]))
	}
	return &NotificationListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// MarkRead flags one of the user's notifications as seen
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := s.findOwned(ctx, notificationID, userID)
	if err != nil {
		return err
	}

	if notification.IsRead {
		return nil
	}
	if err := s.notifRepo.MarkRead(ctx, notification.ID); err != nil {
		s.logger.Error("failed to mark notification read", zap.String("notification_id", notificationID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to update notification", err)
	}
	return nil
}

// MarkAllRead flags every notification of the user as seen
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAllRead(ctx, userID); err != nil {
		s.logger.Error("failed to mark notifications read", zap.String("user_id", userID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to update notifications", err)
	}
	return nil
}

// UnreadCount returns how many notifications the user has not seen
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count unread notifications", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, shared.WrapDomainError("INTERNAL_ERROR", "Failed to count unread notifications", err)
	}
	return count, nil
}

// Delete removes one of the user's notifications
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := s.findOwned(ctx, notificationID, userID)
	if err != nil {
		return err
	}

	if err := s.notifRepo.Delete(ctx, notification.ID); err != nil {
		s.logger.Error("failed to delete notification", zap.String("notification_id", notificationID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to delete notification", err)
	}
	return nil
}

func (s *NotificationService) findOwned(ctx context.Context, notificationID, userID uuid.UUID) (*social.Notification, error) {
	notification, err := s.notifRepo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("NOTIFICATION_NOT_FOUND", "Notification not found", err)
		}
		s.logger.Error("failed to load notification", zap.String("notification_id", notificationID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load notification", err)
	}
	if notification.UserID != userID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Notification belongs to another user", shared.ErrForbidden)
	}
	return notification, nil
}
