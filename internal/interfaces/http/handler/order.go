package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/commerce"
	"github.com/gin-gonic/gin"
)

// OrderHandler exposes checkout and order history
type OrderHandler struct {
	checkoutService *commerce.CheckoutService
	orderService    *commerce.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *commerce.CheckoutService, orderService *commerce.OrderService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService, orderService: orderService}
}

// Checkout handles POST /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	input := commerce.CheckoutInput{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			fail(c, err)
			return
		}
	}
	result, err := h.checkoutService.Checkout(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
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
	order, err := h.orderService.GetByID(c.Request.Context(), id, uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.orderService.ListByBuyer(c.Request.Context(), uid, commerce.ListOrdersInput{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
