package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// DiscountHandler exposes discount campaigns and code validation
type DiscountHandler struct {
	discountService *billing.DiscountService
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *billing.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// Create handles POST /discounts
func (h *DiscountHandler) Create(c *gin.Context) {
	var input billing.CreateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	campaign, err := h.discountService.CreateCampaign(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// GetByID handles GET /discounts/:id
func (h *DiscountHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	campaign, err := h.discountService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// ListActive handles GET /discounts
func (h *DiscountHandler) ListActive(c *gin.Context) {
	page, pageSize := pagination(c)
	result, err := h.discountService.ListActive(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ValidateCode handles POST /discounts/validate
func (h *DiscountHandler) ValidateCode(c *gin.Context) {
	var input billing.ValidateCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	preview, err := h.discountService.ValidateCode(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Deactivate handles POST /discounts/:id/deactivate
func (h *DiscountHandler) Deactivate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	campaign, err := h.discountService.Deactivate(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}
