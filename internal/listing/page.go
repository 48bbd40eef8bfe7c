// Package listing pages and orders product sequences for the listing views.
package listing

// PageSize is the number of products shown per listing page.
const PageSize = 15

// Page is one page of an ordered sequence.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
	// ShowPager is false when everything fits on one page.
	ShowPager bool `json:"showPager"`
}

// Paginate returns the 1-indexed page of items. Pages outside the sequence
// yield an empty slice rather than an error.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = PageSize
	}
	total := TotalPages(len(items), size)

	start := min(max((page-1)*size, 0), len(items))
	end := min(start+size, len(items))

	slice := items[start:end:end]
	if slice == nil {
		slice = []T{}
	}

	return Page[T]{
		Items:       slice,
		Page:        page,
		PageSize:    size,
		TotalItems:  len(items),
		TotalPages:  total,
		HasPrevious: page > 1,
		HasNext:     page < total,
		ShowPager:   total > 1,
	}
}

// TotalPages is ceil(n/size), 0 for an empty sequence
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Previous never goes below the first page
func Previous(page int) int {
	return max(page-1, 1)
}

// Next never goes past the last page
func Next(page, totalPages int) int {
	return min(page+1, max(totalPages, 1))
}

// ClampPage bounds a requested page to [1, totalPages]
func ClampPage(page, totalPages int) int {
	return min(max(page, 1), max(totalPages, 1))
}
