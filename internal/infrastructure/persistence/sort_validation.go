package persistence

import (
	"strings"

	"github.com/erp/warehouse/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// GoodSortFields contains allowed sort fields for goods
var GoodSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"matching_mode": true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"type":       true,
}

// applyPaging orders and pages a catalog query.
// Unknown filter keys are ignored; allowedFilters names the columns that may be matched on.
func applyPaging(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, allowedFilters ...string) *gorm.DB {
	for _, key := range allowedFilters {
		if value, ok := filter.Filters[key]; ok {
			query = query.Where(key+" = ?", value)
		}
	}

	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
