package view

import (
	"sort"
	"strings"

	"campaigndash/internal/table"
)

// AllOption is the filter choice that disables a filter.
const AllOption = "All"

// Search keeps the rows where any cell, rendered as text, contains query
// case-insensitively. Whitespace in the query is matched like any other
// character. Missing cells render as the empty string. An empty query keeps
// every row.
func Search(t *table.Table, query string) *table.Table {
	if query == "" {
		return t
	}
	q := strings.ToLower(query)

	var rows []int
	for r := 0; r < t.NumRows(); r++ {
		for _, col := range t.Columns() {
			if strings.Contains(strings.ToLower(col.Values[r].String()), q) {
				rows = append(rows, r)
				break
			}
		}
	}
	return t.Take(rows)
}

// FilterEquals keeps the rows matching every filter, comparing the text
// rendering of the cell. Filters on columns the table lacks, and filters
// set to AllOption or empty, are ignored.
func FilterEquals(t *table.Table, filters map[string]string) *table.Table {
	type cond struct {
		col   *table.Column
		value string
	}
	var conds []cond
	for name, value := range filters {
		if value == "" || value == AllOption {
			continue
		}
		if col, ok := t.Column(name); ok {
			conds = append(conds, cond{col: col, value: value})
		}
	}
	if len(conds) == 0 {
		return t
	}

	var rows []int
	for r := 0; r < t.NumRows(); r++ {
		match := true
		for _, c := range conds {
			if c.col.Values[r].IsMissing() || c.col.Values[r].String() != c.value {
				match = false
				break
			}
		}
		if match {
			rows = append(rows, r)
		}
	}
	return t.Take(rows)
}

// Options returns the sorted distinct non-missing values of column, or nil
// when the column does not exist.
func Options(t *table.Table, column string) []string {
	col, ok := t.Column(column)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var opts []string
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			opts = append(opts, s)
		}
	}
	sort.Strings(opts)
	return opts
}

// Filter is one filterable column and its choices.
type Filter struct {
	Column   string
	Param    string
	Options  []string
	Selected string
}

// Filters lists the filter controls for the candidate columns present in t.
func Filters(t *table.Table, columns []string, s State) []Filter {
	var out []Filter
	for _, name := range columns {
		if !t.Has(name) {
			continue
		}
		out = append(out, Filter{
			Column:   name,
			Param:    FilterParam(name),
			Options:  append([]string{AllOption}, Options(t, name)...),
			Selected: s.Filter(name),
		})
	}
	return out
}
