package source

import (
	"context"
	"fmt"
	"time"

	"campaigndash/internal/table"
)

// SampleName labels the built-in example data.
const SampleName = "Example data"

// sampleDeadlines are the days remaining of the ten example rows.
var sampleDeadlines = []float64{5, 3, 10, 2, 7, 14, 1, 0, 5, 3}

// SampleTable returns the ten fixed example rows shown when the real
// worksheet cannot be loaded.
func SampleTable() *table.Table {
	statuses := []string{"Aprovado", "Em Produção", "Aguardando", "Aprovado", "Em Produção",
		"Aguardando", "Aprovado", "Concluído", "Em Produção", "Aguardando"}
	priorities := []string{"Alta", "Média", "Baixa", "Alta", "Média", "Baixa", "Alta", "Média", "Baixa", "Alta"}
	owners := []string{"Cocred", "Ideatore"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	n := len(sampleDeadlines)
	ids := make([]table.Value, n)
	campaigns := make([]table.Value, n)
	status := make([]table.Value, n)
	priority := make([]table.Value, n)
	production := make([]table.Value, n)
	requested := make([]table.Value, n)
	deadlines := make([]table.Value, n)
	for i := 0; i < n; i++ {
		ids[i] = table.Number(float64(i + 1))
		campaigns[i] = table.Text(fmt.Sprintf("Campanha %d", i+1))
		status[i] = table.Text(statuses[i])
		priority[i] = table.Text(priorities[i])
		production[i] = table.Text(owners[i%2])
		requested[i] = table.Date(start.AddDate(0, 0, i))
		deadlines[i] = table.Number(sampleDeadlines[i])
	}

	t, err := table.New(
		table.NewColumn("ID", ids),
		table.NewColumn("Campanha", campaigns),
		table.NewColumn("Status", status),
		table.NewColumn("Prioridade", priority),
		table.NewColumn("Produção", production),
		table.NewColumn("Data Solicitação", requested),
		table.NewColumn("Prazo (dias)", deadlines),
	)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleSource serves the example rows. It never fails.
type SampleSource struct {
	now func() time.Time
}

// NewSampleSource creates a source serving the example rows.
func NewSampleSource() *SampleSource {
	return &SampleSource{now: time.Now}
}

// Name returns the sample label.
func (s *SampleSource) Name() string { return SampleName }

// Fetch returns a fresh copy of the example rows.
func (s *SampleSource) Fetch(ctx context.Context) (*Dataset, error) {
	ds := NewDataset(SampleTable(), SampleName, s.now())
	ds.Sample = true
	return ds, nil
}

// Check always succeeds.
func (s *SampleSource) Check(ctx context.Context) error { return nil }

// UnavailableSource stands in for a source that could not be configured.
// Every fetch fails with the configuration error, so the loader serves the
// example data with that error as its warning.
type UnavailableSource struct {
	name string
	err  error
}

// NewUnavailableSource creates a source that always fails with err.
func NewUnavailableSource(name string, err error) *UnavailableSource {
	return &UnavailableSource{name: name, err: err}
}

// Name returns the label of the source that failed to configure.
func (s *UnavailableSource) Name() string { return s.name }

// Fetch returns the configuration error.
func (s *UnavailableSource) Fetch(ctx context.Context) (*Dataset, error) { return nil, s.err }

// Check returns the configuration error.
func (s *UnavailableSource) Check(ctx context.Context) error { return s.err }
