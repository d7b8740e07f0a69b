// Package pagination windows an ordered collection for display. Pure
// functions, no clamping: an out-of-range page yields an empty window and
// the caller decides what to do with it.
package pagination

// DefaultPageSize matches the sidebar list of the original client.
const DefaultPageSize = 5

// TotalPages returns ceil(n / pageSize). Zero items means zero pages.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Slice returns the 1-based page window items[(page-1)*pageSize :
// page*pageSize]. Out-of-range pages return an empty slice.
func Slice[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
