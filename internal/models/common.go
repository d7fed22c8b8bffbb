package models

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// Pagination holds pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// DefaultPagination returns default pagination settings.
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: defaultPageSize,
	}
}

// Offset calculates the SQL offset for the current page.
func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

// Limit returns the page size clamped to 1..100.
func (p Pagination) Limit() int {
	switch {
	case p.PageSize < 1:
		return defaultPageSize
	case p.PageSize > maxPageSize:
		return maxPageSize
	default:
		return p.PageSize
	}
}

// TotalPages calculates the total number of pages; never less than one.
func (p Pagination) TotalPages(total int) int {
	size := p.Limit()
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}
