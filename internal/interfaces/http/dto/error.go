package dto

import (
	"net/http"
	"strings"
)

// ErrorResponse is the envelope every failed request returns
type ErrorResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	ErrorID    string `json:"errorId,omitempty"`
	Details    any    `json:"details,omitempty"`
	Stack      string `json:"stack,omitempty"`
}

// NewErrorResponse builds the error envelope
func NewErrorResponse(statusCode int, code, message string) ErrorResponse {
	return ErrorResponse{
		Status:     "error",
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// statusByCode maps domain error codes to HTTP status codes. Codes not
// listed fall back to a suffix and sentinel based classification.
var statusByCode = map[string]int{
	"VALIDATION_ERROR":      http.StatusBadRequest,
	"UNAUTHORIZED":          http.StatusUnauthorized,
	"INVALID_CREDENTIALS":   http.StatusUnauthorized,
	"TOKEN_EXPIRED":         http.StatusUnauthorized,
	"TOKEN_REVOKED":         http.StatusUnauthorized,
	"INVALID_TOKEN":         http.StatusUnauthorized,
	"FORBIDDEN":             http.StatusForbidden,
	"NOT_FOUND":             http.StatusNotFound,
	"ALREADY_EXISTS":        http.StatusConflict,
	"CONCURRENCY_CONFLICT":  http.StatusConflict,
	"INVALID_STATE":         http.StatusConflict,
	"PRODUCT_UNAVAILABLE":   http.StatusConflict,
	"USAGE_LIMIT_REACHED":   http.StatusConflict,
	"NO_PROMOTION_SPOTS":    http.StatusConflict,
	"PAYMENT_FAILED":        http.StatusPaymentRequired,
	"MIN_PURCHASE_NOT_MET":  http.StatusUnprocessableEntity,
	"EMAIL_NOT_VERIFIED":    http.StatusForbidden,
	"ACCOUNT_DEACTIVATED":   http.StatusForbidden,
	"MAINTENANCE_MODE":      http.StatusServiceUnavailable,
	"INTERNAL_ERROR":        http.StatusInternalServerError,
	"INTERNAL_SERVER_ERROR": http.StatusInternalServerError,
}

// StatusForCode resolves the HTTP status for a domain error code
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_EXISTS") || strings.HasSuffix(code, "_TAKEN") ||
		strings.HasSuffix(code, "_SUBSCRIBED") || strings.HasSuffix(code, "_PAID"):
		return http.StatusConflict
	case strings.HasSuffix(code, "_RETIRED") || strings.HasSuffix(code, "_EXEMPT") ||
		strings.HasSuffix(code, "_DUE"):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
