package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/settings"
	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes platform configuration
type SettingsHandler struct {
	settingsService *settings.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles GET /settings/:key
func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.settingsService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// Set handles PUT /settings/:key
func (h *SettingsHandler) Set(c *gin.Context) {
	var input settings.SetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	setting, err := h.settingsService.Set(c.Request.Context(), c.Param("key"), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// List handles GET /settings
func (h *SettingsHandler) List(c *gin.Context) {
	items, err := h.settingsService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": items})
}

// Delete handles DELETE /settings/:key
func (h *SettingsHandler) Delete(c *gin.Context) {
	if err := h.settingsService.Delete(c.Request.Context(), c.Param("key")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
