package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/commerce"
	"github.com/gin-gonic/gin"
)

// CartHandler exposes the shopping cart
type CartHandler struct {
	cartService *commerce.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *commerce.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	cart, err := h.cartService.GetCart(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input commerce.AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	cart, err := h.cartService.AddToCart(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var input commerce.UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), uid, itemID, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	cart, err := h.cartService.RemoveItem(c.Request.Context(), uid, itemID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.cartService.ClearCart(c.Request.Context(), uid); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
