package source

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an XLSX document with one sheet per name, each holding rows.
func workbook(t *testing.T, sheets map[string][][]any, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbookNamedSheet(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Resumo": {{"x"}, {1}},
		"Demandas ID": {
			{"ID", "Campanha", "Prazo (dias)"},
			{1, "Consórcios", 3},
			{2, "Crédito PJ", -1},
		},
	}, "Resumo", "Demandas ID")

	wb, err := ParseWorkbook(bytes.NewReader(data), "Demandas ID")
	require.NoError(t, err)
	assert.Empty(t, wb.Warnings)
	assert.Equal(t, "Demandas ID", wb.Sheet)
	assert.Equal(t, []string{"ID", "Campanha", "Prazo (dias)"}, wb.Table.Names())
	assert.Equal(t, 2, wb.Table.NumRows())

	prazo, _ := wb.Table.Column("Prazo (dias)")
	assert.Equal(t, -1.0, prazo.Values[1].Num)
	campanha, _ := wb.Table.Column("Campanha")
	assert.Equal(t, "Consórcios", campanha.Values[0].String())
}

func TestParseWorkbookFallsBackToFirstSheet(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Plan1": {{"ID"}, {7}},
	}, "Plan1")

	wb, err := ParseWorkbook(bytes.NewReader(data), "Demandas ID")
	require.NoError(t, err)
	assert.Equal(t, "Plan1", wb.Sheet)
	require.Len(t, wb.Warnings, 1)
	assert.Contains(t, wb.Warnings[0], "Demandas ID")
	assert.Equal(t, 1, wb.Table.NumRows())
}

func TestParseWorkbookRejectsGarbage(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("not a zip"), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParseFailure))
}
