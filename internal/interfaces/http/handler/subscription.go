package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler exposes user subscriptions
type SubscriptionHandler struct {
	subscriptionService *billing.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService *billing.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Subscribe handles POST /subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input billing.SubscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	result, err := h.subscriptionService.Subscribe(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Cancel handles POST /subscriptions/:id/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
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
	sub, err := h.subscriptionService.Cancel(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Current handles GET /subscriptions/current
func (h *SubscriptionHandler) Current(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	sub, err := h.subscriptionService.GetCurrent(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// List handles GET /subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.subscriptionService.ListByUser(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
