package export

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"campaigndash/internal/table"
)

const (
	dataSheet     = "Data"
	metadataSheet = "Metadata"
)

// WriteXLSX writes t to the Data sheet of a new workbook. When meta is set a
// Metadata sheet lists the row and column counts, export time and source.
func WriteXLSX(w io.Writer, t *table.Table, meta *Metadata) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), dataSheet); err != nil {
		return goerr.Wrap(err, "naming data sheet")
	}
	if err := writeSheet(f, dataSheet, t); err != nil {
		return err
	}

	if meta != nil {
		if _, err := f.NewSheet(metadataSheet); err != nil {
			return goerr.Wrap(err, "creating metadata sheet")
		}
		if err := writeSheet(f, metadataSheet, metadataTable(meta)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "writing workbook")
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *table.Table) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return goerr.Wrap(err, "opening sheet writer", goerr.V("sheet", sheet))
	}

	header := make([]any, t.NumCols())
	for i, name := range t.Names() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return goerr.Wrap(err, "writing sheet header", goerr.V("sheet", sheet))
	}

	for r := 0; r < t.NumRows(); r++ {
		row := t.Row(r)
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v.Interface()
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return goerr.Wrap(err, "addressing row", goerr.V("row", r))
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return goerr.Wrap(err, "writing sheet row", goerr.V("sheet", sheet), goerr.V("row", r))
		}
	}

	if err := sw.Flush(); err != nil {
		return goerr.Wrap(err, "flushing sheet", goerr.V("sheet", sheet))
	}
	return nil
}

func metadataTable(meta *Metadata) *table.Table {
	t, _ := table.New(
		table.NewColumn("Field", []table.Value{
			table.Text("Total Rows"),
			table.Text("Total Columns"),
			table.Text("Exported At"),
			table.Text("Source"),
		}),
		&table.Column{Name: "Value", Kind: table.KindText, Values: []table.Value{
			table.Text(table.FormatNumber(float64(meta.Rows))),
			table.Text(table.FormatNumber(float64(meta.Columns))),
			table.Text(meta.ExportedAt.Format("02/01/2006 15:04:05")),
			table.Text(meta.Source),
		}},
	)
	return t
}
