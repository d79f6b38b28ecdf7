package handler

import (
	"net/http"

	application "github.com/campusmarket/backend/internal/application/billing"
	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// PromotionHandler exposes promotional slots
type PromotionHandler struct {
	promotionService *application.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionService *application.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// CreateSlot handles POST /promotions
func (h *PromotionHandler) CreateSlot(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input application.CreateSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	slot, err := h.promotionService.CreateSlot(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// CancelSlot handles POST /promotions/:id/cancel
func (h *PromotionHandler) CancelSlot(c *gin.Context) {
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
	slot, err := h.promotionService.CancelSlot(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// List handles GET /promotions
func (h *PromotionHandler) List(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.promotionService.ListByUser(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListActive handles GET /promotions/active
func (h *PromotionHandler) ListActive(c *gin.Context) {
	promotionType := billing.PromotionType(c.Query("type"))
	if !promotionType.IsValid() {
		fail(c, shared.NewDomainError("INVALID_PROMOTION_TYPE", "Unknown promotion type"))
		return
	}
	slots, err := h.promotionService.ListActiveByType(c.Request.Context(), promotionType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
