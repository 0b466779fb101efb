package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func sheetsFake(t *testing.T, status int, body string) *SheetsSource {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	src, err := NewSheetsSource(context.Background(), SheetsConfig{
		SpreadsheetID: "sheet-id",
		Sheet:         "Demandas ID",
		Options: []option.ClientOption{
			option.WithEndpoint(server.URL + "/"),
			option.WithoutAuthentication(),
			option.WithHTTPClient(server.Client()),
		},
	})
	require.NoError(t, err)
	return src
}

func TestSheetsSourceFetch(t *testing.T) {
	src := sheetsFake(t, http.StatusOK, `{
		"range": "'Demandas ID'!A1:C3",
		"majorDimension": "ROWS",
		"values": [
			["ID", "Campanha", "Prazo (dias)"],
			[1, "Site", 3],
			[2, "Email Marketing"]
		]
	}`)

	ds, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Google Sheets - Demandas ID", ds.Source)
	assert.Equal(t, []string{"ID", "Campanha", "Prazo (dias)"}, ds.Table.Names())
	assert.Equal(t, 2, ds.Table.NumRows())

	prazo, _ := ds.Table.Column("Prazo (dias)")
	assert.Equal(t, 3.0, prazo.Values[0].Num)
	assert.True(t, prazo.Values[1].IsMissing())
}

func TestSheetsSourceErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{name: "unauthenticated", status: http.StatusUnauthorized, expected: ErrAuthFailure},
		{name: "forbidden", status: http.StatusForbidden, expected: ErrPermissionDenied},
		{name: "missing spreadsheet", status: http.StatusNotFound, expected: ErrNotFound},
		{name: "unknown sheet range", status: http.StatusBadRequest, expected: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sheetsFake(t, tt.status, `{"error":{"code":0,"message":"nope"}}`)
			_, err := src.Fetch(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}
