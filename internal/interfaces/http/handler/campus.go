package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// CampusHandler exposes campus management
type CampusHandler struct {
	campusService *identity.CampusService
}

// NewCampusHandler creates a new campus handler
func NewCampusHandler(campusService *identity.CampusService) *CampusHandler {
	return &CampusHandler{campusService: campusService}
}

// Create handles POST /campuses
func (h *CampusHandler) Create(c *gin.Context) {
	var input identity.CreateCampusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	campus, err := h.campusService.Create(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, campus)
}

// GetByID handles GET /campuses/:id
func (h *CampusHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	campus, err := h.campusService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campus)
}

// List handles GET /campuses
func (h *CampusHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	input := identity.ListCampusesInput{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		SortDir:  c.Query("sort_dir"),
	}
	var err error
	if input.IsActive, err = queryBool(c, "is_active"); err != nil {
		fail(c, err)
		return
	}

	result, err := h.campusService.List(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update handles PUT /campuses/:id
func (h *CampusHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var input identity.UpdateCampusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	campus, err := h.campusService.Update(c.Request.Context(), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campus)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive handles PATCH /campuses/:id/active
func (h *CampusHandler) SetActive(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	campus, err := h.campusService.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campus)
}

// Delete handles DELETE /campuses/:id
func (h *CampusHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.campusService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
