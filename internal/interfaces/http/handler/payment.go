package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes fee payments and refunds
type PaymentHandler struct {
	paymentService *billing.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *billing.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PayTransactionFee handles POST /payments/transaction-fee
func (h *PaymentHandler) PayTransactionFee(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input billing.PayTransactionFeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	payment, err := h.paymentService.PayTransactionFee(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// GetByID handles GET /payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
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
	payment, err := h.paymentService.GetByID(c.Request.Context(), id, uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.paymentService.ListByUser(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Refund handles POST /payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	input := billing.RefundPaymentInput{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			fail(c, err)
			return
		}
	}
	payment, err := h.paymentService.Refund(c.Request.Context(), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
