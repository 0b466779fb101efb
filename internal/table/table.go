package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrLengthMismatch  = errors.New("column length does not match table")
	ErrColumnNotFound  = errors.New("column not found")
)

// Column is a named, typed sequence of values.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// NewColumn builds a column and infers its kind from the values.
func NewColumn(name string, values []Value) *Column {
	col := &Column{Name: name, Values: values}
	col.Kind = infer(values)
	if col.Kind != KindText {
		for i, v := range values {
			values[i] = coerce(v, col.Kind)
		}
	}
	return col
}

// Len returns the number of values in the column.
func (c *Column) Len() int { return len(c.Values) }

// Table is an ordered set of equally long columns with unique names.
// A Table is never modified after construction; every transformation
// returns a new Table sharing the underlying values.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table from columns, enforcing unique names and equal lengths.
func New(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, goerr.Wrap(ErrDuplicateColumn, "building table", goerr.V("column", col.Name))
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, goerr.Wrap(ErrLengthMismatch, "building table",
				goerr.V("column", col.Name), goerr.V("len", col.Len()), goerr.V("rows", t.rows))
		}
		t.index[col.Name] = i
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// Empty returns a table with no columns and no rows.
func Empty() *Table {
	return &Table{index: map[string]int{}}
}

// FromRecords builds a table from a header row and raw data rows, the shape
// returned by spreadsheet readers. Blank headers become "Unnamed: i" and
// repeated headers get ".1", ".2" suffixes so names stay unique. Short rows
// are padded with missing values; cells beyond the header are dropped.
func FromRecords(headers []string, rows [][]any) *Table {
	names := normalizeHeaders(headers)
	columns := make([]*Column, len(names))
	for c, name := range names {
		values := make([]Value, len(rows))
		for r, row := range rows {
			if c < len(row) {
				values[r] = Parse(row[c])
			} else {
				values[r] = Missing()
			}
		}
		columns[c] = NewColumn(name, values)
	}
	// names are unique and columns equally long by construction
	t, _ := New(columns...)
	return t
}

func normalizeHeaders(headers []string) []string {
	names := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for {
			n, ok := seen[name]
			if !ok {
				break
			}
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", base, n+1)
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Columns returns the columns in order.
func (t *Table) Columns() []*Column { return t.columns }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// FirstPresent returns the first candidate column name present in the table.
func (t *Table) FirstPresent(candidates []string) (string, bool) {
	for _, name := range candidates {
		if t.Has(name) {
			return name, true
		}
	}
	return "", false
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Strings returns every row rendered as text, for templates and CSV.
func (t *Table) Strings() [][]string {
	out := make([][]string, t.rows)
	for r := 0; r < t.rows; r++ {
		row := make([]string, len(t.columns))
		for c, col := range t.columns {
			row[c] = col.Values[r].String()
		}
		out[r] = row
	}
	return out
}

// Take returns a new table holding the given rows in the given order.
func (t *Table) Take(indices []int) *Table {
	columns := make([]*Column, len(t.columns))
	for c, col := range t.columns {
		values := make([]Value, len(indices))
		for i, r := range indices {
			values[i] = col.Values[r]
		}
		columns[c] = &Column{Name: col.Name, Kind: col.Kind, Values: values}
	}
	return t.derive(columns, len(indices))
}

// Slice returns rows [start, end), clamped to the table bounds.
func (t *Table) Slice(start, end int) *Table {
	start = max(0, min(start, t.rows))
	end = max(start, min(end, t.rows))
	columns := make([]*Column, len(t.columns))
	for c, col := range t.columns {
		columns[c] = &Column{Name: col.Name, Kind: col.Kind, Values: col.Values[start:end:end]}
	}
	return t.derive(columns, end-start)
}

// Project returns a table with only the named columns, in the given order.
// Unknown names are skipped.
func (t *Table) Project(names []string) *Table {
	var columns []*Column
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		if col, ok := t.Column(name); ok {
			columns = append(columns, col)
			seen[name] = true
		}
	}
	return t.derive(columns, t.rows)
}

// WithColumn returns a new table with col appended.
func (t *Table) WithColumn(col *Column) (*Table, error) {
	if t.Has(col.Name) {
		return nil, goerr.Wrap(ErrDuplicateColumn, "adding column", goerr.V("column", col.Name))
	}
	if len(t.columns) > 0 && col.Len() != t.rows {
		return nil, goerr.Wrap(ErrLengthMismatch, "adding column",
			goerr.V("column", col.Name), goerr.V("len", col.Len()), goerr.V("rows", t.rows))
	}
	columns := make([]*Column, 0, len(t.columns)+1)
	columns = append(columns, t.columns...)
	columns = append(columns, col)
	return t.derive(columns, col.Len()), nil
}

// WithoutColumn returns a new table without the named column.
func (t *Table) WithoutColumn(name string) *Table {
	columns := make([]*Column, 0, len(t.columns))
	for _, col := range t.columns {
		if col.Name != name {
			columns = append(columns, col)
		}
	}
	return t.derive(columns, t.rows)
}

func (t *Table) derive(columns []*Column, rows int) *Table {
	out := &Table{columns: columns, index: make(map[string]int, len(columns)), rows: rows}
	if len(columns) == 0 {
		out.rows = 0
	}
	for i, col := range columns {
		out.index[col.Name] = i
	}
	return out
}

func infer(values []Value) Kind {
	numeric, dated, present := true, true, 0
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		present++
		switch v.Kind {
		case KindNumber:
			dated = false
		case KindDate:
			numeric = false
		default:
			if _, ok := v.Float(); !ok {
				numeric = false
			}
			if _, ok := ParseDate(v.Str); !ok {
				dated = false
			}
		}
		if !numeric && !dated {
			return KindText
		}
	}
	switch {
	case present == 0:
		return KindText
	case numeric:
		return KindNumber
	case dated:
		return KindDate
	default:
		return KindText
	}
}

func coerce(v Value, kind Kind) Value {
	if v.IsMissing() || v.Kind == kind {
		return v
	}
	switch kind {
	case KindNumber:
		if f, ok := v.Float(); ok {
			return Number(f)
		}
	case KindDate:
		if t, ok := ParseDate(v.Str); ok {
			return Date(t)
		}
	}
	return v
}
