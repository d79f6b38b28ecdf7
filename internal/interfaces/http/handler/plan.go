package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
)

// PlanHandler exposes subscription plan management
type PlanHandler struct {
	planService *billing.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService *billing.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Create handles POST /plans
func (h *PlanHandler) Create(c *gin.Context) {
	var input billing.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	plan, err := h.planService.Create(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetByID handles GET /plans/:id
func (h *PlanHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	plan, err := h.planService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ListActive handles GET /plans
func (h *PlanHandler) ListActive(c *gin.Context) {
	plans, err := h.planService.ListActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// Update handles PUT /plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var input billing.UpdatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Retire handles DELETE /plans/:id
func (h *PlanHandler) Retire(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.planService.Retire(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
