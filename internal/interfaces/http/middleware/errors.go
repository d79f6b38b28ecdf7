package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/campusmarket/backend/internal/domain/shared"
	applog "github.com/campusmarket/backend/internal/infrastructure/logger"
	"github.com/campusmarket/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FieldError describes one invalid request field
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ErrorHandler converts errors pushed onto the gin context into the
// error envelope. Domain errors map by code, validation errors become
// VALIDATION_ERROR with per-field details, anything else is a 500.
// Full detail is always logged; the client sees the stack only in
// development and an errorId everywhere else.
func ErrorHandler(logger *zap.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if c.Writer.Written() {
			logger.Warn("error after response was written",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			return
		}

		envelope, logLevel := buildEnvelope(err, development)

		log := applog.WithTraceContext(c.Request.Context(), logger)
		fields := []zap.Field{
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", envelope.StatusCode),
			zap.String("code", envelope.Code),
			zap.Error(err),
		}
		if envelope.ErrorID != "" {
			fields = append(fields, zap.String("error_id", envelope.ErrorID))
		}
		if logLevel == zapcore.ErrorLevel {
			log.Error("request failed", fields...)
		} else {
			log.Warn("request failed", fields...)
		}

		c.JSON(envelope.StatusCode, envelope)
	}
}

func buildEnvelope(err error, development bool) (dto.ErrorResponse, zapcore.Level) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		envelope := dto.NewErrorResponse(http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed")
		envelope.Details = details
		return envelope, zapcore.WarnLevel
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.StatusForCode(domainErr.Code)
		envelope := dto.NewErrorResponse(status, domainErr.Code, domainErr.Message)
		envelope.Details = domainErr.Details
		if status >= http.StatusInternalServerError {
			envelope.Message = "Internal server error"
			decorate(&envelope, err, development)
			return envelope, zapcore.ErrorLevel
		}
		return envelope, zapcore.WarnLevel
	}

	envelope := dto.NewErrorResponse(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	decorate(&envelope, err, development)
	return envelope, zapcore.ErrorLevel
}

func decorate(envelope *dto.ErrorResponse, err error, development bool) {
	if development {
		envelope.Stack = fmt.Sprintf("%v\n%s", err, debug.Stack())
	} else {
		envelope.ErrorID = uuid.NewString()
	}
}
