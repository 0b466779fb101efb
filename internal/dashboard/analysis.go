// Package dashboard derives everything the dashboard shows about one loaded
// dataset: deadline labels, critical items, campaign summary and the rows of
// each export scope.
package dashboard

import (
	"time"

	"campaigndash/internal/config"
	"campaigndash/internal/deadline"
	"campaigndash/internal/source"
	"campaigndash/internal/table"
	"campaigndash/internal/view"
)

// Analysis is the derived view of one dataset. It is computed once per load
// and shared read-only between requests.
type Analysis struct {
	Dataset *source.Dataset
	// Table is the dataset with the deadline label column appended when a
	// deadline column exists.
	Table *table.Table

	DeadlineColumn string
	Deadlines      *deadline.Result
	Summary        deadline.Summary
	// Critical holds the critical rows restricted to the critical view columns.
	Critical *table.Table

	Campaigns  *table.Table
	LatestDate time.Time
	HasLatest  bool
}

// HasDeadlines reports whether a deadline column was found.
func (a *Analysis) HasDeadlines() bool {
	return a.Deadlines != nil
}

// Analyze classifies ds by the first deadline candidate column present and
// computes the summaries. A dataset without a deadline column is analyzed
// without labels.
func Analyze(ds *source.Dataset, cols config.ColumnsConfig) *Analysis {
	a := &Analysis{Dataset: ds, Table: ds.Table}

	if name, ok := ds.Table.FirstPresent(cols.Deadline); ok {
		res, err := deadline.Annotate(ds.Table, name, cols.Label)
		if err == nil {
			a.DeadlineColumn = name
			a.Deadlines = res
			a.Table = res.Table
			a.Summary = res.Summary()
			a.Critical = res.Critical().Project(criticalColumns(cols, name, res.LabelColumn))
		}
	}

	if summary, ok := view.CampaignSummary(ds.Table, cols.Campaign, cols.ID, cols.Status); ok {
		a.Campaigns = summary
	}
	a.LatestDate, a.HasLatest = view.LatestDate(ds.Table, cols.RequestDate)
	return a
}

func criticalColumns(cols config.ColumnsConfig, deadlineCol, labelCol string) []string {
	names := make([]string, 0, len(cols.Critical)+2)
	names = append(names, cols.Critical...)
	return append(names, deadlineCol, labelCol)
}
