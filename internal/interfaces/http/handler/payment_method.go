package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// PaymentMethodHandler exposes stored payment methods
type PaymentMethodHandler struct {
	methodService *billing.PaymentMethodService
}

// NewPaymentMethodHandler creates a new payment method handler
func NewPaymentMethodHandler(methodService *billing.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// Attach handles POST /payment-methods
func (h *PaymentMethodHandler) Attach(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input billing.AttachPaymentMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	method, err := h.methodService.Attach(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, method)
}

// List handles GET /payment-methods
func (h *PaymentMethodHandler) List(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	methods, err := h.methodService.List(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

// SetDefault handles PATCH /payment-methods/:id/default
func (h *PaymentMethodHandler) SetDefault(c *gin.Context) {
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
	method, err := h.methodService.SetDefault(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, method)
}

// Remove handles DELETE /payment-methods/:id
func (h *PaymentMethodHandler) Remove(c *gin.Context) {
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
	if err := h.methodService.Remove(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
