package source

import (
	"io"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"campaigndash/internal/table"
)

// Workbook is a parsed worksheet plus any non-fatal parse warnings.
type Workbook struct {
	Table    *table.Table
	Sheet    string
	Warnings []string
}

// ParseWorkbook reads the named worksheet from an XLSX document. The first
// row is the header. When the sheet does not exist the first sheet is read
// instead and a warning is returned.
func ParseWorkbook(r io.Reader, sheet string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, goerr.Wrap(ErrParseFailure, "opening workbook", goerr.V("cause", err.Error()))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, goerr.Wrap(ErrParseFailure, "workbook has no sheets")
	}

	wb := &Workbook{Sheet: sheet}
	if sheet == "" || !slices.Contains(sheets, sheet) {
		wb.Sheet = sheets[0]
		if sheet != "" {
			wb.Warnings = append(wb.Warnings,
				"Worksheet \""+sheet+"\" not found; reading \""+wb.Sheet+"\" instead.")
		}
	}

	rows, err := f.GetRows(wb.Sheet)
	if err != nil {
		return nil, goerr.Wrap(ErrParseFailure, "reading worksheet",
			goerr.V("sheet", wb.Sheet), goerr.V("cause", err.Error()))
	}

	wb.Table = recordsTable(rows)
	return wb, nil
}

// recordsTable turns string rows with a header row into a table.
func recordsTable(rows [][]string) *table.Table {
	if len(rows) == 0 {
		return table.Empty()
	}
	data := make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		data = append(data, cells)
	}
	return table.FromRecords(rows[0], data)
}
