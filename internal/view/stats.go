package view

import (
	"math"
	"sort"
	"time"

	"campaigndash/internal/table"
)

// describeStats are the row labels of Describe, in order.
var describeStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// StatColumn is the label column of the Describe table.
const StatColumn = "stat"

// Describe summarizes every numeric column: count, mean, sample standard
// deviation, min, quartiles and max. Quantiles interpolate linearly. Statistics
// that are undefined for the column, such as std with one value, are missing.
// It returns nil when t has no numeric column.
func Describe(t *table.Table) *table.Table {
	labels := make([]table.Value, len(describeStats))
	for i, s := range describeStats {
		labels[i] = table.Text(s)
	}
	columns := []*table.Column{{Name: StatColumn, Kind: table.KindText, Values: labels}}

	for _, col := range t.Columns() {
		if col.Kind != table.KindNumber {
			continue
		}
		columns = append(columns, &table.Column{
			Name:   col.Name,
			Kind:   table.KindNumber,
			Values: describe(numbers(col)),
		})
	}
	if len(columns) == 1 {
		return nil
	}
	out, _ := table.New(columns...)
	return out
}

func numbers(col *table.Column) []float64 {
	xs := make([]float64, 0, col.Len())
	for _, v := range col.Values {
		if f, ok := v.Float(); ok && !math.IsNaN(f) {
			xs = append(xs, f)
		}
	}
	sort.Float64s(xs)
	return xs
}

// describe expects xs sorted.
func describe(xs []float64) []table.Value {
	n := len(xs)
	out := make([]table.Value, len(describeStats))
	out[0] = table.Number(float64(n))
	for i := 1; i < len(out); i++ {
		out[i] = table.Missing()
	}
	if n == 0 {
		return out
	}

	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(n)
	out[1] = table.Number(round6(mean))

	if n > 1 {
		ss := 0.0
		for _, x := range xs {
			ss += (x - mean) * (x - mean)
		}
		out[2] = table.Number(round6(math.Sqrt(ss / float64(n-1))))
	}

	out[3] = table.Number(xs[0])
	out[4] = table.Number(round6(Quantile(xs, 0.25)))
	out[5] = table.Number(round6(Quantile(xs, 0.5)))
	out[6] = table.Number(round6(Quantile(xs, 0.75)))
	out[7] = table.Number(xs[n-1])
	return out
}

// Quantile returns the q-quantile of sorted xs with linear interpolation
// between closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

// ColumnSummary describes the fill rate of one column.
type ColumnSummary struct {
	Name     string
	Kind     string
	Distinct int
	Missing  int
	Filled   float64
}

// ColumnInfo summarizes every column of t.
func ColumnInfo(t *table.Table) []ColumnSummary {
	total := t.NumRows()
	out := make([]ColumnSummary, 0, t.NumCols())
	for _, col := range t.Columns() {
		missing := 0
		distinct := make(map[string]struct{})
		for _, v := range col.Values {
			if v.IsMissing() {
				missing++
				continue
			}
			distinct[v.String()] = struct{}{}
		}
		filled := 0.0
		if total > 0 {
			filled = float64(total-missing) / float64(total) * 100
		}
		out = append(out, ColumnSummary{
			Name:     col.Name,
			Kind:     col.Kind.String(),
			Distinct: len(distinct),
			Missing:  missing,
			Filled:   filled,
		})
	}
	return out
}

// Count is the frequency of one value.
type Count struct {
	Value string
	Count int
}

// ValueCounts counts the non-missing values of column, most frequent first.
// Ties keep the order of first appearance.
func ValueCounts(t *table.Table, column string) []Count {
	col, ok := t.Column(column)
	if !ok {
		return nil
	}
	index := make(map[string]int)
	var counts []Count
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		s := v.String()
		i, seen := index[s]
		if !seen {
			i = len(counts)
			index[s] = i
			counts = append(counts, Count{Value: s})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}

// maxCategorical is the distinct-value limit under which a non-text column
// is still offered as categorical.
const maxCategorical = 20

// CategoricalColumns lists text columns and columns with fewer than 20
// distinct values.
func CategoricalColumns(t *table.Table) []string {
	var out []string
	for _, col := range t.Columns() {
		if col.Kind == table.KindText {
			out = append(out, col.Name)
			continue
		}
		distinct := make(map[string]struct{})
		for _, v := range col.Values {
			if !v.IsMissing() {
				distinct[v.String()] = struct{}{}
			}
		}
		if len(distinct) < maxCategorical {
			out = append(out, col.Name)
		}
	}
	return out
}

// TotalColumn is the job count column of CampaignSummary.
const TotalColumn = "Total Jobs"

// CampaignSummary groups t by campaign and counts the non-missing IDs of each
// group, plus one count column per status when statusCol exists. Rows are
// ordered by total, largest first. It returns false when t lacks the
// campaign column.
func CampaignSummary(t *table.Table, campaignCol, idCol, statusCol string) (*table.Table, bool) {
	campaigns, ok := t.Column(campaignCol)
	if !ok {
		return nil, false
	}
	ids, hasID := t.Column(idCol)
	statuses, hasStatus := t.Column(statusCol)

	counted := func(r int) bool {
		return !hasID || !ids.Values[r].IsMissing()
	}

	totals := make(map[string]int)
	pivot := make(map[string]map[string]int)
	statusSet := make(map[string]struct{})
	for r := 0; r < t.NumRows(); r++ {
		v := campaigns.Values[r]
		if v.IsMissing() {
			continue
		}
		name := v.String()
		if _, ok := totals[name]; !ok {
			totals[name] = 0
			pivot[name] = make(map[string]int)
		}
		if !counted(r) {
			continue
		}
		totals[name]++
		if hasStatus && !statuses.Values[r].IsMissing() {
			s := statuses.Values[r].String()
			statusSet[s] = struct{}{}
			pivot[name][s]++
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool { return totals[names[i]] > totals[names[j]] })

	statusNames := make([]string, 0, len(statusSet))
	for s := range statusSet {
		if s != campaignCol && s != TotalColumn {
			statusNames = append(statusNames, s)
		}
	}
	sort.Strings(statusNames)

	nameValues := make([]table.Value, len(names))
	totalValues := make([]table.Value, len(names))
	for i, name := range names {
		nameValues[i] = table.Text(name)
		totalValues[i] = table.Number(float64(totals[name]))
	}
	columns := []*table.Column{
		{Name: campaignCol, Kind: table.KindText, Values: nameValues},
		{Name: TotalColumn, Kind: table.KindNumber, Values: totalValues},
	}
	for _, s := range statusNames {
		values := make([]table.Value, len(names))
		for i, name := range names {
			values[i] = table.Number(float64(pivot[name][s]))
		}
		columns = append(columns, &table.Column{Name: s, Kind: table.KindNumber, Values: values})
	}

	out, err := table.New(columns...)
	if err != nil {
		return nil, false
	}
	return out, true
}

// LatestDate returns the latest date in the first candidate column present
// in t. Text cells are parsed as dates.
func LatestDate(t *table.Table, candidates []string) (time.Time, bool) {
	name, ok := t.FirstPresent(candidates)
	if !ok {
		return time.Time{}, false
	}
	col, _ := t.Column(name)

	var latest time.Time
	found := false
	for _, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		var d time.Time
		switch v.Kind {
		case table.KindDate:
			d = v.Time
		case table.KindText:
			parsed, ok := table.ParseDate(v.Str)
			if !ok {
				continue
			}
			d = parsed
		default:
			continue
		}
		if !found || d.After(latest) {
			latest, found = d, true
		}
	}
	return latest, found
}

// ApproxBytes estimates the in-memory size of the table's cell payloads.
func ApproxBytes(t *table.Table) int {
	const cell = 32
	n := 0
	for _, col := range t.Columns() {
		n += len(col.Name)
		for _, v := range col.Values {
			n += cell
			if v.Kind == table.KindText {
				n += len(v.Str)
			}
		}
	}
	return n
}

// Bar is one horizontal bar of a distribution chart. Width is relative to
// the largest count, in percent.
type Bar struct {
	Label string
	Count int
	Width float64
}

// Bars turns counts into chart bars, keeping at most limit of them. A limit
// of 0 keeps all.
func Bars(counts []Count, limit int) []Bar {
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	peak := 0
	for _, c := range counts {
		peak = max(peak, c.Count)
	}
	bars := make([]Bar, 0, len(counts))
	for _, c := range counts {
		width := 0.0
		if peak > 0 {
			width = float64(c.Count) / float64(peak) * 100
		}
		bars = append(bars, Bar{Label: c.Value, Count: c.Count, Width: width})
	}
	return bars
}
