package query

// DefaultPageSize is the number of tickets shown per page.
const DefaultPageSize = 6

// Offset returns the row offset of a 1-based page. Pages below 1 yield a
// negative offset; callers clamp first.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total/pageSize) with a floor of one page, so an
// empty listing still has a page to show.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage pins page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
