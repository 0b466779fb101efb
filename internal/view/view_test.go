package view

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaigndash/internal/table"
)

func campaigns() *table.Table {
	return table.FromRecords(
		[]string{"ID", "Campanha", "Status", "Prioridade", "Data Solicitação", "Prazo (dias)"},
		[][]any{
			{1, "Crédito Rural", "Aprovado", "Alta", "2024-01-03", 5},
			{2, "Consórcio", "Em Produção", "Média", "2024-01-10", 3},
			{3, "Crédito Rural", "Aprovado", "Baixa", "2024-01-07", nil},
			{4, "Seguros", "Aguardando", "Alta", nil, 12},
			{5, nil, "Aprovado", "Alta", "2024-01-01", 0},
		},
	)
}

func TestSearch(t *testing.T) {
	tbl := campaigns()

	tests := []struct {
		name  string
		query string
		ids   []string
	}{
		{name: "empty keeps all", query: "", ids: []string{"1", "2", "3", "4", "5"}},
		{name: "case insensitive", query: "crédito", ids: []string{"1", "3"}},
		{name: "upper case", query: "APROVADO", ids: []string{"1", "3", "5"}},
		{name: "number as text", query: "12", ids: []string{"4"}},
		{name: "dates as text", query: "2024-01-1", ids: []string{"2"}},
		{name: "no match", query: "nan", ids: nil},
		{name: "leading space is matched", query: " rural", ids: []string{"1", "3"}},
		{name: "trailing space is matched", query: "rural ", ids: nil},
		{name: "whitespace only", query: " ", ids: []string{"1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(tbl, tt.query)
			var ids []string
			col, _ := got.Column("ID")
			for _, v := range col.Values {
				ids = append(ids, v.String())
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, tbl.Names(), got.Names())
		})
	}
}

func TestFilterEquals(t *testing.T) {
	tbl := campaigns()

	got := FilterEquals(tbl, map[string]string{"Status": "Aprovado", "Prioridade": "Alta"})
	assert.Equal(t, 2, got.NumRows())

	// unknown columns and the All option are ignored
	got = FilterEquals(tbl, map[string]string{"Produção": "Cocred", "Status": AllOption})
	assert.Equal(t, tbl.NumRows(), got.NumRows())

	got = FilterEquals(tbl, map[string]string{"Status": "Cancelado"})
	assert.Equal(t, 0, got.NumRows())
	assert.Equal(t, tbl.NumCols(), got.NumCols())

	// AND of filters is a subset of each filter alone
	both := FilterEquals(tbl, map[string]string{"Status": "Aprovado", "Prioridade": "Baixa"})
	status := FilterEquals(tbl, map[string]string{"Status": "Aprovado"})
	assert.LessOrEqual(t, both.NumRows(), status.NumRows())
}

func TestOptions(t *testing.T) {
	tbl := campaigns()
	assert.Equal(t, []string{"Consórcio", "Crédito Rural", "Seguros"}, Options(tbl, "Campanha"))
	assert.Nil(t, Options(tbl, "Produção"))

	filters := Filters(tbl, []string{"Status", "Produção"}, DefaultState().WithFilter("Status", "Aprovado"))
	require.Len(t, filters, 1)
	assert.Equal(t, "f.Status", filters[0].Param)
	assert.Equal(t, "Aprovado", filters[0].Selected)
	assert.Equal(t, []string{AllOption, "Aguardando", "Aprovado", "Em Produção"}, filters[0].Options)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		size     int
		page     int
		expected Page
	}{
		{name: "first page", total: 250, size: 100, page: 1, expected: Page{Number: 1, Size: 100, Total: 250, Pages: 3, Start: 0, End: 100}},
		{name: "last partial page", total: 250, size: 100, page: 3, expected: Page{Number: 3, Size: 100, Total: 250, Pages: 3, Start: 200, End: 250}},
		{name: "page past the end clamps", total: 250, size: 100, page: 9, expected: Page{Number: 3, Size: 100, Total: 250, Pages: 3, Start: 200, End: 250}},
		{name: "page zero clamps", total: 10, size: 50, page: 0, expected: Page{Number: 1, Size: 50, Total: 10, Pages: 1, Start: 0, End: 10}},
		{name: "empty table", total: 0, size: 50, page: 1, expected: Page{Number: 1, Size: 50, Total: 0, Pages: 1, Start: 0, End: 0}},
		{name: "exact multiple", total: 200, size: 100, page: 2, expected: Page{Number: 2, Size: 100, Total: 200, Pages: 2, Start: 100, End: 200}},
		{name: "all rows", total: 250, size: 0, page: 2, expected: Page{Number: 1, Size: 0, Total: 250, Pages: 1, Start: 0, End: 250}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Paginate(tt.total, tt.size, tt.page))
		})
	}
}

func TestPageNavigation(t *testing.T) {
	p := Paginate(250, 100, 2)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 3, p.Next())
	assert.Equal(t, 101, p.FirstRow())

	rows := p.Apply(campaigns())
	assert.Equal(t, 0, rows.NumRows())

	assert.Equal(t, 0, Paginate(0, 100, 1).FirstRow())
}

func TestTableHeight(t *testing.T) {
	assert.Equal(t, 335, TableHeight(1, DefaultMaxTable))
	assert.Equal(t, 800, TableHeight(100, DefaultMaxTable))
	assert.Equal(t, 300, TableHeight(0, 600))
}

func TestParseState(t *testing.T) {
	q := url.Values{
		"tab":        {"search"},
		"page":       {"3"},
		"size":       {"all"},
		"q":          {"  crédito "},
		"f.Status":   {"Aprovado"},
		"f.Produção": {AllOption},
		"f.":         {"x"},
		"filters":    {"0"},
		"debug":      {"1"},
		"dist1":      {"Status"},
	}
	s := ParseState(q)

	assert.Equal(t, TabSearch, s.Tab)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, 0, s.PageSize)
	assert.Equal(t, "  crédito ", s.Query)
	assert.Equal(t, map[string]string{"Status": "Aprovado"}, s.Filters)
	assert.False(t, s.ShowFilters)
	assert.True(t, s.Debug)
	assert.Equal(t, "Status", s.Dist1)

	round := ParseState(s.Values())
	assert.Equal(t, s, round)
}

func TestParseStateDefaults(t *testing.T) {
	s := ParseState(url.Values{"tab": {"admin"}, "page": {"-1"}, "size": {"42"}})
	assert.Equal(t, DefaultState(), s)
	assert.Equal(t, "/", s.Href())
}

func TestStateHelpersCopy(t *testing.T) {
	base := DefaultState().WithFilter("Status", "Aprovado").WithPage(4)

	next := base.WithFilter("Prioridade", "Alta")
	assert.Len(t, base.Filters, 1)
	assert.Len(t, next.Filters, 2)

	resized := base.WithPageSize(50)
	assert.Equal(t, 1, resized.Page)
	assert.Equal(t, 4, base.Page)

	assert.False(t, base.WithoutFilters().HasFilters())
	assert.True(t, base.HasFilters())
	assert.Equal(t, AllOption, base.Filter("Prioridade"))
	assert.Equal(t, "/?f.Status=Aprovado&page=4", base.Href())
}

func TestDescribe(t *testing.T) {
	tbl := table.FromRecords([]string{"n", "s"}, [][]any{{1, "a"}, {2, "b"}, {3, "c"}, {4, nil}, {nil, "e"}})

	d := Describe(tbl)
	require.NotNil(t, d)
	assert.Equal(t, []string{StatColumn, "n"}, d.Names())

	col, _ := d.Column("n")
	got := make(map[string]string)
	stats, _ := d.Column(StatColumn)
	for i, v := range col.Values {
		got[stats.Values[i].String()] = v.String()
	}
	assert.Equal(t, map[string]string{
		"count": "4",
		"mean":  "2.5",
		"std":   "1.290994",
		"min":   "1",
		"25%":   "1.75",
		"50%":   "2.5",
		"75%":   "3.25",
		"max":   "4",
	}, got)
}

func TestDescribeEdgeCases(t *testing.T) {
	assert.Nil(t, Describe(table.FromRecords([]string{"s"}, [][]any{{"a"}})))

	d := Describe(table.FromRecords([]string{"n"}, [][]any{{7}}))
	col, _ := d.Column("n")
	assert.Equal(t, "1", col.Values[0].String())
	assert.Equal(t, "7", col.Values[1].String())
	assert.True(t, col.Values[2].IsMissing())
}

func TestQuantile(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 5, 10}
	assert.Equal(t, 0.0, Quantile(xs, 0))
	assert.Equal(t, 10.0, Quantile(xs, 1))
	assert.Equal(t, 2.5, Quantile(xs, 0.5))
	assert.Equal(t, 1.25, Quantile(xs, 0.25))
}

func TestColumnInfo(t *testing.T) {
	info := ColumnInfo(campaigns())
	require.Len(t, info, 6)

	byName := make(map[string]ColumnSummary)
	for _, c := range info {
		byName[c.Name] = c
	}
	assert.Equal(t, ColumnSummary{Name: "Campanha", Kind: "text", Distinct: 3, Missing: 1, Filled: 80}, byName["Campanha"])
	assert.Equal(t, "date", byName["Data Solicitação"].Kind)
	assert.Equal(t, "number", byName["Prazo (dias)"].Kind)

	empty := ColumnInfo(table.FromRecords([]string{"a"}, nil))
	assert.Equal(t, 0.0, empty[0].Filled)
}

func TestValueCounts(t *testing.T) {
	counts := ValueCounts(campaigns(), "Status")
	assert.Equal(t, []Count{
		{Value: "Aprovado", Count: 3},
		{Value: "Em Produção", Count: 1},
		{Value: "Aguardando", Count: 1},
	}, counts)
	assert.Nil(t, ValueCounts(campaigns(), "missing"))
}

func TestCategoricalColumns(t *testing.T) {
	assert.Equal(t, []string{"ID", "Campanha", "Status", "Prioridade", "Data Solicitação", "Prazo (dias)"}, CategoricalColumns(campaigns()))

	rows := make([][]any, 25)
	for i := range rows {
		rows[i] = []any{i, "x"}
	}
	assert.Equal(t, []string{"s"}, CategoricalColumns(table.FromRecords([]string{"n", "s"}, rows)))
}

func TestCampaignSummary(t *testing.T) {
	summary, ok := CampaignSummary(campaigns(), "Campanha", "ID", "Status")
	require.True(t, ok)

	assert.Equal(t, []string{"Campanha", TotalColumn, "Aguardando", "Aprovado", "Em Produção"}, summary.Names())
	assert.Equal(t, [][]string{
		{"Crédito Rural", "2", "0", "2", "0"},
		{"Consórcio", "1", "0", "0", "1"},
		{"Seguros", "1", "1", "0", "0"},
	}, summary.Strings())

	_, ok = CampaignSummary(campaigns(), "Campaign", "ID", "Status")
	assert.False(t, ok)

	noStatus, ok := CampaignSummary(campaigns(), "Campanha", "ID", "Estado")
	require.True(t, ok)
	assert.Equal(t, []string{"Campanha", TotalColumn}, noStatus.Names())
}

func TestLatestDate(t *testing.T) {
	latest, ok := LatestDate(campaigns(), []string{"Data", "Data Solicitação"})
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), latest)

	_, ok = LatestDate(campaigns(), []string{"Criado em"})
	assert.False(t, ok)
}

func TestApproxBytes(t *testing.T) {
	assert.Zero(t, ApproxBytes(table.Empty()))
	assert.Greater(t, ApproxBytes(campaigns()), 0)
}

func TestBars(t *testing.T) {
	bars := Bars([]Count{{Value: "a", Count: 4}, {Value: "b", Count: 2}, {Value: "c", Count: 1}}, 2)
	require.Len(t, bars, 2)
	assert.Equal(t, Bar{Label: "a", Count: 4, Width: 100}, bars[0])
	assert.Equal(t, 50.0, bars[1].Width)

	assert.Empty(t, Bars(nil, 0))
}
