package persistence

import (
	"github.com/facilityos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyIDScope narrows a query to the filter's ID constraints. It runs
// in the page query and the count query alike, so totals match the rows
// the caller may see.
func applyIDScope(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if len(filter.IncludeIDs) > 0 {
		query = query.Where("id IN ?", filter.IncludeIDs)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	return query
}
