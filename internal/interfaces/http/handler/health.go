package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports process and database liveness
type HealthHandler struct {
	db      *gorm.DB
	appName string
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, appName, version string) *HealthHandler {
	return &HealthHandler{db: db, appName: appName, version: version}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"

	if sqlDB, err := h.db.DB(); err != nil {
		status, dbStatus = "degraded", "unreachable"
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		status, dbStatus = "degraded", "unreachable"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":   status,
		"app":      h.appName,
		"version":  h.version,
		"database": dbStatus,
	})
}
