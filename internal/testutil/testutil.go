// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"campaigndash/internal/retry"
	"campaigndash/internal/source"
	"campaigndash/internal/table"
)

// StaticSource serves a fixed table, or fails with Err when set.
type StaticSource struct {
	Table  *table.Table
	Err    error
	Calls  atomic.Int32
	Resets atomic.Int32
}

// Name labels the source.
func (s *StaticSource) Name() string { return "Test - Demandas ID" }

// Fetch returns the table or Err.
func (s *StaticSource) Fetch(ctx context.Context) (*source.Dataset, error) {
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return source.NewDataset(s.Table, s.Name(), time.Now()), nil
}

// Check returns Err.
func (s *StaticSource) Check(ctx context.Context) error { return s.Err }

// ResetCredentials counts credential resets.
func (s *StaticSource) ResetCredentials() { s.Resets.Add(1) }

// NewLoader wraps src in a loader that does not retry.
func NewLoader(t *testing.T, src source.Source) *source.Loader {
	t.Helper()
	return source.NewLoader(src, source.LoaderConfig{
		TTL:   time.Minute,
		Retry: retry.Config{MaxRetries: 0},
	})
}

// Campaigns builds a campaign worksheet with one row per deadline value.
// Rows alternate between two campaigns and three statuses.
func Campaigns(t *testing.T, deadlines ...any) *table.Table {
	t.Helper()
	names := []string{"Crédito Rural", "Consórcio"}
	statuses := []string{"Aprovado", "Em Produção", "Aguardando"}
	priorities := []string{"Alta", "Média"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := make([][]any, len(deadlines))
	for i, d := range deadlines {
		rows[i] = []any{
			i + 1,
			names[i%len(names)],
			statuses[i%len(statuses)],
			priorities[i%len(priorities)],
			start.AddDate(0, 0, i),
			d,
		}
	}
	return table.FromRecords(
		[]string{"ID", "Campanha", "Status", "Prioridade", "Data Solicitação", "Prazo (dias)"},
		rows,
	)
}
