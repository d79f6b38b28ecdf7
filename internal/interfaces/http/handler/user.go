package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes user profile operations
type UserHandler struct {
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByID handles GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	input := identity.ListUsersInput{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		SortDir:  c.Query("sort_dir"),
	}
	var err error
	if input.CampusID, err = queryUUID(c, "campus_id"); err != nil {
		fail(c, err)
		return
	}
	if input.IsVerified, err = queryBool(c, "is_verified"); err != nil {
		fail(c, err)
		return
	}
	if input.IsActive, err = queryBool(c, "is_active"); err != nil {
		fail(c, err)
		return
	}

	result, err := h.userService.List(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input identity.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Deactivate handles DELETE /users/me
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.userService.Deactivate(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
