package handlers

import (
	"campaigndash/internal/deadline"
	"campaigndash/internal/table"
	"campaigndash/internal/view"
)

// Grid is a table prepared for the templates.
type Grid struct {
	Headers []string
	Rows    []GridRow
	Height  int
	// Offset is the number of rows before the first one shown.
	Offset int
}

// GridRow is one rendered row. Class is the deadline label slug of the
// row when the table carries a label column.
type GridRow struct {
	Number int
	Class  string
	Cells  []string
}

// Empty reports whether the grid has no rows.
func (g Grid) Empty() bool {
	return len(g.Rows) == 0
}

// newGrid renders t. labelColumn, when present in t, tags every row with
// its deadline label slug.
func newGrid(t *table.Table, labelColumn string, offset int) Grid {
	g := Grid{
		Headers: t.Names(),
		Rows:    make([]GridRow, 0, t.NumRows()),
		Height:  view.TableHeight(t.NumRows(), view.DefaultMaxTable),
		Offset:  offset,
	}

	labels, hasLabels := t.Column(labelColumn)
	for r, cells := range t.Strings() {
		row := GridRow{Number: offset + r + 1, Cells: cells}
		if hasLabels {
			if l, ok := deadline.ParseLabel(labels.Values[r].String()); ok {
				row.Class = "label-" + l.Slug()
			}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
