package listctrl

import "fmt"

// PageWindow describes the visible slice of a paginated collection.
// Start/End are half-open slice bounds into the collection; the label
// shown under the table is 1-based.
type PageWindow struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Start      int `json:"start"`
	End        int `json:"end"`
	Total      int `json:"total"`
}

// Label renders the entries caption, "Showing 1 to 4 of 6 entries".
func (w PageWindow) Label() string {
	if w.Total == 0 {
		return "Showing 0 entries"
	}
	return fmt.Sprintf("Showing %d to %d of %d entries", w.Start+1, w.End, w.Total)
}

// PageButton is one entry of the page-button row.
type PageButton struct {
	Number int  `json:"number"`
	Active bool `json:"active"`
}

// Buttons renders the page-button row, one button per page with the
// active flag on the clamped current page.
func (w PageWindow) Buttons() []PageButton {
	out := make([]PageButton, 0, w.TotalPages)
	for p := 1; p <= w.TotalPages; p++ {
		out = append(out, PageButton{Number: p, Active: p == w.Page})
	}
	return out
}

// HasPrevious reports whether the Previous button is enabled.
func (w PageWindow) HasPrevious() bool { return w.Page > 1 }

// HasNext reports whether the Next button is enabled.
func (w PageWindow) HasNext() bool { return w.Page < w.TotalPages }

// TotalPages derives the page count for a collection. Never below one, so
// an empty collection still renders page 1 of 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage forces a requested page into [1, totalPages]. Out-of-range
// input is a no-op correction, never an error.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Window computes the visible slice for a requested page, clamping the
// page first so the window is always valid even after the collection
// shrinks underneath it.
func Window(total, pageSize, requested int) PageWindow {
	totalPages := TotalPages(total, pageSize)
	page := ClampPage(requested, totalPages)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return PageWindow{
		Page:       page,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
		Total:      total,
	}
}
