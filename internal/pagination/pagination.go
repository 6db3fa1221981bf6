// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import "strconv"

// PerPage is the number of items in a page
const PerPage = 10

// Paginate returns the 1-based page of items. Pages before the first or past
// the last yield an empty, non-nil slice.
func Paginate[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage < 1 || len(items) == 0 {
		return []T{}
	}
	// Compare page numbers before multiplying so huge pages cannot wrap.
	if page-1 > (len(items)-1)/perPage {
		return []T{}
	}

	start := (page - 1) * perPage
	end := start + min(perPage, len(items)-start)

	current := make([]T, end-start)
	copy(current, items[start:end])
	return current
}

// PageFromQuery parses a page query parameter. Missing or non-numeric values
// fall back to the first page.
func PageFromQuery(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}
