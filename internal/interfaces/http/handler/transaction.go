package handler

import (
	"net/http"

	"github.com/campusmarket/backend/internal/application/commerce"
	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes the transaction lifecycle
type TransactionHandler struct {
	transactionService *commerce.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *commerce.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// GetByID handles GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
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
	tx, err := h.transactionService.GetByID(c.Request.Context(), id, uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.transactionService.List(c.Request.Context(), uid, commerce.ListTransactionsInput{
		Page:     page,
		PageSize: pageSize,
		Role:     c.Query("role"),
		Status:   c.Query("status"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SetMeeting handles PUT /transactions/:id/meeting
func (h *TransactionHandler) SetMeeting(c *gin.Context) {
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
	var input commerce.SetMeetingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	tx, err := h.transactionService.SetMeeting(c.Request.Context(), id, uid, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Complete handles POST /transactions/:id/complete
func (h *TransactionHandler) Complete(c *gin.Context) {
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
	tx, err := h.transactionService.Complete(c.Request.Context(), id, uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Cancel handles POST /transactions/:id/cancel
func (h *TransactionHandler) Cancel(c *gin.Context) {
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
	tx, err := h.transactionService.Cancel(c.Request.Context(), id, uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}
