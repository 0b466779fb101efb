package export

import (
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"campaigndash/internal/table"
)

// DateFormat is a user-facing date layout for exported date columns.
type DateFormat string

const (
	DateDMY DateFormat = "DD/MM/YYYY"
	DateISO DateFormat = "YYYY-MM-DD"
	DateMDY DateFormat = "MM/DD/YYYY"
)

// DateFormats lists the supported layouts in display order.
var DateFormats = []DateFormat{DateDMY, DateISO, DateMDY}

var dateLayouts = map[DateFormat]string{
	DateDMY: "02/01/2006",
	DateISO: "2006-01-02",
	DateMDY: "01/02/2006",
}

// ErrUnknownDateFormat is returned for date formats outside DateFormats.
var ErrUnknownDateFormat = errors.New("unknown date format")

// Layout returns the Go time layout of the format.
func (f DateFormat) Layout() (string, bool) {
	l, ok := dateLayouts[f]
	return l, ok
}

// Metadata describes an export. It is written to a separate sheet by
// formats that support one.
type Metadata struct {
	Rows       int
	Columns    int
	ExportedAt time.Time
	Source     string
}

// NewMetadata describes t as exported from source at now.
func NewMetadata(t *table.Table, source string, now time.Time) *Metadata {
	return &Metadata{
		Rows:       t.NumRows(),
		Columns:    t.NumCols(),
		ExportedAt: now,
		Source:     source,
	}
}

// Options customizes an export.
type Options struct {
	// Columns selects and orders the exported columns; empty keeps all.
	Columns []string
	// DateFormat renders date columns as text; empty keeps native dates.
	DateFormat DateFormat
}

// Prepare applies opts to t and returns the table to export. t is not
// modified.
func Prepare(t *table.Table, opts Options) (*table.Table, error) {
	out := t
	if len(opts.Columns) > 0 {
		for _, name := range opts.Columns {
			if !t.Has(name) {
				return nil, goerr.Wrap(table.ErrColumnNotFound, "selecting export columns", goerr.V("column", name))
			}
		}
		out = t.Project(opts.Columns)
	}

	if opts.DateFormat == "" {
		return out, nil
	}
	layout, ok := opts.DateFormat.Layout()
	if !ok {
		return nil, goerr.Wrap(ErrUnknownDateFormat, "preparing export", goerr.V("date_format", string(opts.DateFormat)))
	}

	columns := make([]*table.Column, 0, out.NumCols())
	for _, col := range out.Columns() {
		if col.Kind != table.KindDate {
			columns = append(columns, col)
			continue
		}
		values := make([]table.Value, col.Len())
		for i, v := range col.Values {
			if v.IsMissing() {
				values[i] = table.Missing()
				continue
			}
			values[i] = table.Text(v.Time.Format(layout))
		}
		columns = append(columns, &table.Column{Name: col.Name, Kind: table.KindText, Values: values})
	}
	return table.New(columns...)
}
