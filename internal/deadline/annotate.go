package deadline

import (
	"math"
	"sort"
	"strconv"

	"github.com/m-mizutani/goerr/v2"

	"campaigndash/internal/table"
)

// DefaultLabelColumn is the name of the derived label column.
const DefaultLabelColumn = "Deadline Status"

// Result is a classified dataset: the source table plus the derived label
// column, and the label of every row.
type Result struct {
	Table       *table.Table
	Column      string
	LabelColumn string
	Labels      []Label
}

// Annotate classifies every row of t by the named deadline column and returns
// a new table with the label appended as a text column. t is not modified.
func Annotate(t *table.Table, column, labelColumn string) (*Result, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, goerr.Wrap(table.ErrColumnNotFound, "classifying deadlines", goerr.V("column", column))
	}
	if labelColumn == "" {
		labelColumn = DefaultLabelColumn
	}

	labels := make([]Label, col.Len())
	values := make([]table.Value, col.Len())
	for i, v := range col.Values {
		labels[i] = Classify(v)
		values[i] = table.Text(labels[i].String())
	}

	base := t
	if base.Has(labelColumn) {
		// re-annotating replaces a stale label column
		base = base.WithoutColumn(labelColumn)
	}
	annotated, err := base.WithColumn(&table.Column{Name: labelColumn, Kind: table.KindText, Values: values})
	if err != nil {
		return nil, err
	}

	return &Result{
		Table:       annotated,
		Column:      column,
		LabelColumn: labelColumn,
		Labels:      labels,
	}, nil
}

// CriticalRows returns the indices of rows with a critical label.
func (r *Result) CriticalRows() []int {
	var rows []int
	for i, l := range r.Labels {
		if l.IsCritical() {
			rows = append(rows, i)
		}
	}
	return rows
}

// Critical returns the critical rows of the annotated table.
func (r *Result) Critical() *table.Table {
	return r.Table.Take(r.CriticalRows())
}

// CriticalCount returns the number of critical rows.
func (r *Result) CriticalCount() int {
	return CriticalCount(r.Labels)
}

// Summary returns the label distribution of the result.
func (r *Result) Summary() Summary {
	return Summarize(r.Labels)
}

// CriticalCount counts critical labels.
func CriticalCount(labels []Label) int {
	n := 0
	for _, l := range labels {
		if l.IsCritical() {
			n++
		}
	}
	return n
}

// Bucket is the count of one label.
type Bucket struct {
	Label   Label   `json:"label"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// PercentText renders the bucket percentage with one decimal.
func (b Bucket) PercentText() string {
	return FormatPercent(b.Percent)
}

// Summary is the frequency of each label present in a dataset.
type Summary struct {
	Total    int      `json:"total"`
	Critical int      `json:"critical"`
	Buckets  []Bucket `json:"buckets"`
}

// Summarize counts labels. Only labels that occur are listed, most frequent
// first, ties in severity order.
func Summarize(labels []Label) Summary {
	counts := make(map[Label]int)
	for _, l := range labels {
		counts[l]++
	}

	s := Summary{Total: len(labels), Critical: CriticalCount(labels)}
	for _, l := range Labels {
		if n := counts[l]; n > 0 {
			s.Buckets = append(s.Buckets, Bucket{
				Label:   l,
				Name:    l.String(),
				Count:   n,
				Percent: Percent(n, s.Total),
			})
		}
	}
	sort.SliceStable(s.Buckets, func(i, j int) bool {
		return s.Buckets[i].Count > s.Buckets[j].Count
	})
	return s
}

// Count returns the number of rows with the given label.
func (s Summary) Count(l Label) int {
	for _, b := range s.Buckets {
		if b.Label == l {
			return b.Count
		}
	}
	return 0
}

// Percent returns count/total*100, or 0 when total is 0.
func Percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// FormatPercent renders p rounded to one decimal with a percent sign.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(math.Round(p*10)/10, 'f', 1, 64) + "%"
}
