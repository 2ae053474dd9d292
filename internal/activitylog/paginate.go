package activitylog

import "jobboard-backend/internal/models"

const (
	// FetchLimit caps how many records a single fetch returns
	FetchLimit = 200
	// DefaultPageSize is the number of rows per dashboard page
	DefaultPageSize = 20
)

// Page is one slice of the sorted result
type Page struct {
	Items             []models.LogRecord `json:"-"`
	Number            int                `json:"page"`
	Size              int                `json:"pageSize"`
	Total             int                `json:"total"`
	TotalPages        int                `json:"totalPages"`
	StartIndex        int                `json:"startIndex"`
	EndIndexExclusive int                `json:"endIndex"`
}

// TotalPages is ceil(n/size), never less than 1
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate slices records for the given 1-based page number
func Paginate(records []models.LogRecord, pageSize, pageNumber int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	start := (pageNumber - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start > len(records) {
		start = len(records)
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	return Page{
		Items:             records[start:end:end],
		Number:            pageNumber,
		Size:              pageSize,
		Total:             len(records),
		TotalPages:        TotalPages(len(records), pageSize),
		StartIndex:        start,
		EndIndexExclusive: end,
	}
}

// NavigatePage returns the page to show after a request for requested.
// Out-of-range requests leave the current page unchanged.
func NavigatePage(current, requested, totalPages int) (int, bool) {
	if requested < 1 || requested > totalPages {
		return current, false
	}
	return requested, true
}
