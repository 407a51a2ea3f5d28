package shared

import "github.com/google/uuid"

// Filter represents query filter options. The ID constraints are applied
// inside the query, on the page and the count alike, so pagination and
// totals reflect only what the caller may see.
type Filter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	IncludeIDs []uuid.UUID
	ExcludeIDs []uuid.UUID
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
