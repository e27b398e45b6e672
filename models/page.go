package models

// Page is one page of a listing. CurrentPage is 1-based.
type Page[T any] struct {
	Data        []T   `json:"data"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

func (p Page[T]) HasPages() bool {
	return p.TotalPages > 1
}

func (p Page[T]) HasPrev() bool {
	return p.CurrentPage > 1
}

func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Window returns up to size page numbers centred on the current page.
func (p Page[T]) Window(size int) []int {
	return PageWindow(p.CurrentPage, p.TotalPages, size)
}

// PageWindow returns up to size consecutive page numbers around current,
// shifted so the window never leaves [1, total].
func PageWindow(current, total, size int) []int {
	if total <= 0 || size <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > total {
		end = total
		start = end - size + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
