package persistence

import (
	"github.com/campusmarket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyListOptions applies ordering and pagination to a list query.
// The sort field is validated against the whitelist to prevent SQL injection
// through user-supplied order_by values.
func applyListOptions(query *gorm.DB, filter shared.Filter, allowedSort map[string]bool, defaultSort string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowedSort, defaultSort)
	dir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(field + " " + dir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}
