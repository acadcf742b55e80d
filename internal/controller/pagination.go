package controller

// Pagination window sizing. The window holds up to five numbered links
// anchored on the current page, with more room after the current page
// near the start of the range and more before it near the end.
const (
	maxVisiblePages       = 5
	maxPagesBeforeCurrent = maxVisiblePages / 2
	maxPagesAfterCurrent  = (maxVisiblePages+1)/2 - 1
)

// PageLink is one entry of a rendered pagination control.
type PageLink struct {
	Page     int
	Active   bool
	Ellipsis bool
}

// TotalPages converts an item count into a page count, never below one.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PaginationWindow builds the links for a pagination control. Ranges of
// five pages or fewer are shown whole; longer ranges are clamped to a
// five-wide window around current, with first/last links and ellipsis
// markers for the clipped ends.
func PaginationWindow(current, total int) []PageLink {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start, end := 1, total
	if total > maxVisiblePages {
		switch {
		case current <= maxPagesBeforeCurrent:
			end = maxVisiblePages
		case current+maxPagesAfterCurrent >= total:
			start = total - maxVisiblePages + 1
		default:
			start = current - maxPagesBeforeCurrent
			end = current + maxPagesAfterCurrent
		}
	}

	links := make([]PageLink, 0, maxVisiblePages+4)
	if start > 1 {
		links = append(links, PageLink{Page: 1})
		if start > 2 {
			links = append(links, PageLink{Ellipsis: true})
		}
	}
	for p := start; p <= end; p++ {
		links = append(links, PageLink{Page: p, Active: p == current})
	}
	if end < total {
		if end < total-1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Page: total})
	}
	return links
}
