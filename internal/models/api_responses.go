package models

import (
	"time"

	"campaigndash/internal/deadline"
	"campaigndash/internal/table"
)

// ColumnResponse describes one column of a table response.
type ColumnResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// TableResponse is a table in row-major form. Missing cells are null.
type TableResponse struct {
	Columns []ColumnResponse `json:"columns"`
	Rows    [][]any          `json:"rows"`
}

// NewTableResponse converts t for the JSON API.
func NewTableResponse(t *table.Table) TableResponse {
	resp := TableResponse{
		Columns: make([]ColumnResponse, 0, t.NumCols()),
		Rows:    make([][]any, 0, t.NumRows()),
	}
	for _, col := range t.Columns() {
		resp.Columns = append(resp.Columns, ColumnResponse{Name: col.Name, Kind: col.Kind.String()})
	}
	for r := 0; r < t.NumRows(); r++ {
		row := make([]any, 0, t.NumCols())
		for _, v := range t.Row(r) {
			row = append(row, v.Interface())
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}

// PageResponse describes the returned page of a paginated table.
type PageResponse struct {
	Number int `json:"number"`
	Size   int `json:"size"`
	Pages  int `json:"pages"`
	Total  int `json:"total"`
}

// DatasetResponse is the body of GET /api/dataset.
type DatasetResponse struct {
	Source   string        `json:"source"`
	Sample   bool          `json:"sample"`
	LoadedAt time.Time     `json:"loaded_at"`
	Warnings []string      `json:"warnings,omitempty"`
	Page     PageResponse  `json:"page"`
	Table    TableResponse `json:"table"`
}

// BucketResponse is one severity label count.
type BucketResponse struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// DeadlineResponse is the body of GET /api/deadlines.
type DeadlineResponse struct {
	Column   string           `json:"column"`
	Total    int              `json:"total"`
	Critical int              `json:"critical"`
	Buckets  []BucketResponse `json:"buckets"`
}

// NewDeadlineResponse converts a label summary for the JSON API.
func NewDeadlineResponse(column string, s deadline.Summary) DeadlineResponse {
	resp := DeadlineResponse{
		Column:   column,
		Total:    s.Total,
		Critical: s.Critical,
		Buckets:  make([]BucketResponse, 0, len(s.Buckets)),
	}
	for _, b := range s.Buckets {
		resp.Buckets = append(resp.Buckets, BucketResponse{
			Label:   b.Label.String(),
			Count:   b.Count,
			Percent: b.Percent,
		})
	}
	return resp
}

// CriticalResponse is the body of GET /api/critical.
type CriticalResponse struct {
	Count int           `json:"count"`
	Table TableResponse `json:"table"`
}
