package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/social"
	"github.com/gin-gonic/gin"
)

// ConversationHandler exposes buyer-seller messaging
type ConversationHandler struct {
	conversationService *social.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversationService *social.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// Start handles POST /conversations
func (h *ConversationHandler) Start(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input social.StartConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	conversation, err := h.conversationService.Start(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

// List handles GET /conversations
func (h *ConversationHandler) List(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.conversationService.ListByUser(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendMessage handles POST /conversations/:id/messages
func (h *ConversationHandler) SendMessage(c *gin.Context) {
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
	var input social.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	message, err := h.conversationService.SendMessage(c.Request.Context(), uid, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// Messages handles GET /conversations/:id/messages
func (h *ConversationHandler) Messages(c *gin.Context) {
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
	page, pageSize := pagination(c)
	result, err := h.conversationService.GetMessages(c.Request.Context(), uid, id, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UnreadCount handles GET /conversations/unread-count
func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	count, err := h.conversationService.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// Archive handles POST /conversations/:id/archive
func (h *ConversationHandler) Archive(c *gin.Context) {
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
	if err := h.conversationService.Archive(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
