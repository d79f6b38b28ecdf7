package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/social"
	"github.com/gin-gonic/gin"
)

// ReviewHandler exposes seller reviews
type ReviewHandler struct {
	reviewService *social.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *social.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input social.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	review, err := h.reviewService.Create(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Update handles PUT /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
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
	var input social.UpdateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	review, err := h.reviewService.Update(c.Request.Context(), uid, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete handles DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
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
	if err := h.reviewService.Delete(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByUser handles GET /users/:id/reviews
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.reviewService.ListByReviewed(c.Request.Context(), id, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByProduct handles GET /products/:id/reviews
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.reviewService.ListByProduct(c.Request.Context(), id, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
