package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/social"
	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the notification inbox
type NotificationHandler struct {
	notificationService *social.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *social.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	unreadOnly, err := queryBool(c, "unread_only")
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.notificationService.List(c.Request.Context(), uid, unreadOnly != nil && *unreadOnly, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.notificationService.MarkAllRead(c.Request.Context(), uid); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	count, err := h.notificationService.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// Delete handles DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
