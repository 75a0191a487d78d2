package search

// DefaultPageSize is the number of results shown per page.
const DefaultPageSize = 50

// Paginate returns the 1-based page of items and the total number of pages.
// A page outside the range yields an empty slice.
func Paginate[T any](items []T, page, size int) ([]T, int) {
	if size < 1 {
		size = DefaultPageSize
	}
	total := (len(items) + size - 1) / size
	if page < 1 || page > total {
		return nil, total
	}

	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end], total
}
