package handler

import (
	"strconv"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// userID extracts the authenticated user's id set by the auth middleware
func userID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(middleware.UserIDKey)
	if raw == "" {
		return uuid.Nil, shared.WrapDomainError("UNAUTHORIZED", "Authentication required", shared.ErrUnauthorized)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.WrapDomainError("UNAUTHORIZED", "Invalid user identity", shared.ErrUnauthorized)
	}
	return id, nil
}

// optionalUserID returns the authenticated user's id, or uuid.Nil for
// anonymous requests
func optionalUserID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(middleware.UserIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// pathID parses a uuid path parameter
func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_ID", "Invalid "+name+" parameter")
	}
	return id, nil
}

// pagination reads page/page_size query parameters, zero when absent
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	return page, pageSize
}

// queryUUID parses an optional uuid query parameter
func queryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILTER", "Invalid "+name+" parameter")
	}
	return &id, nil
}

// queryBool parses an optional boolean query parameter
func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILTER", "Invalid "+name+" parameter")
	}
	return &value, nil
}

// queryDecimal parses an optional decimal query parameter
func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILTER", "Invalid "+name+" parameter")
	}
	return &value, nil
}

// queryString returns a pointer to a non-empty query parameter
func queryString(c *gin.Context, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// fail pushes the error onto the context for the error middleware
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
