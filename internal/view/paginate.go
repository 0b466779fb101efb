package view

import "campaigndash/internal/table"

// Page is one window of a paginated table. Number is 1-based.
type Page struct {
	Number int
	Size   int
	Total  int
	Pages  int
	Start  int
	End    int
}

// Paginate computes the window for page of size rows over total rows. A
// size of 0 shows every row on a single page. The page number is clamped to
// [1, Pages].
func Paginate(total, size, page int) Page {
	total = max(total, 0)
	if size <= 0 {
		return Page{Number: 1, Size: 0, Total: total, Pages: 1, Start: 0, End: total}
	}

	pages := max(1, (total+size-1)/size)
	page = min(max(page, 1), pages)
	start := (page - 1) * size
	end := min(start+size, total)
	return Page{Number: page, Size: size, Total: total, Pages: pages, Start: start, End: end}
}

// Apply returns the rows of the page.
func (p Page) Apply(t *table.Table) *table.Table {
	return t.Slice(p.Start, p.End)
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.Pages }

// Prev returns the previous page number.
func (p Page) Prev() int { return max(p.Number-1, 1) }

// Next returns the next page number.
func (p Page) Next() int { return min(p.Number+1, p.Pages) }

// FirstRow is the 1-based number of the first row shown, 0 when empty.
func (p Page) FirstRow() int {
	if p.End == p.Start {
		return 0
	}
	return p.Start + 1
}

const (
	rowHeight       = 35
	minTableHeight  = 300
	DefaultMaxTable = 800
)

// TableHeight returns a display height in pixels for a table of rows rows,
// capped at maxHeight.
func TableHeight(rows, maxHeight int) int {
	return min(minTableHeight+rows*rowHeight, maxHeight)
}
