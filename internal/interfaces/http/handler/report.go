package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/social"
	"github.com/gin-gonic/gin"
)

// ReportHandler exposes user reports and their review workflow
type ReportHandler struct {
	reportService *social.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *social.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// File handles POST /reports
func (h *ReportHandler) File(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input social.FileReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	report, err := h.reportService.File(c.Request.Context(), uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// Resolve handles POST /reports/:id/resolve
func (h *ReportHandler) Resolve(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	report, err := h.reportService.Resolve(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Dismiss handles POST /reports/:id/dismiss
func (h *ReportHandler) Dismiss(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	report, err := h.reportService.Dismiss(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListByStatus handles GET /reports
func (h *ReportHandler) ListByStatus(c *gin.Context) {
	page, pageSize := pagination(c)
	status := c.DefaultQuery("status", "Pending")
	result, err := h.reportService.ListByStatus(c.Request.Context(), status, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByReported handles GET /users/:id/reports
func (h *ReportHandler) ListByReported(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.reportService.ListByReported(c.Request.Context(), id, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
