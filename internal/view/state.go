// Package view derives what the dashboard shows from a dataset and the
// request's view state: search, equality filters, pagination and summary
// statistics. Every function returns new tables.
package view

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Tabs of the dashboard page.
const (
	TabData   = "data"
	TabStats  = "stats"
	TabSearch = "search"
	TabExport = "export"
)

// Tabs lists the tabs in display order.
var Tabs = []string{TabData, TabStats, TabSearch, TabExport}

// PageSizes are the selectable page sizes; 0 shows every row.
var PageSizes = []int{50, 100, 200, 500, 0}

// DefaultPageSize is used when the request names no valid page size.
const DefaultPageSize = 100

const filterPrefix = "f."

// State is the per-request view state, carried in the query string. Values
// are never shared between requests; With* helpers return modified copies.
type State struct {
	Tab         string
	Page        int
	PageSize    int
	Query       string
	Filters     map[string]string
	ShowFilters bool
	Debug       bool
	// Dist1 and Dist2 are the columns picked for the distribution charts.
	Dist1 string
	Dist2 string
}

// DefaultState is the state of a request without parameters.
func DefaultState() State {
	return State{
		Tab:         TabData,
		Page:        1,
		PageSize:    DefaultPageSize,
		Filters:     map[string]string{},
		ShowFilters: true,
	}
}

// ParseState reads the view state from query parameters. Invalid values fall
// back to their defaults.
func ParseState(q url.Values) State {
	s := DefaultState()

	if tab := q.Get("tab"); slices.Contains(Tabs, tab) {
		s.Tab = tab
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		s.Page = page
	}
	if size, ok := ParsePageSize(q.Get("size")); ok {
		s.PageSize = size
	}
	s.Query = q.Get("q")

	for key, values := range q {
		col, ok := strings.CutPrefix(key, filterPrefix)
		if !ok || col == "" || len(values) == 0 {
			continue
		}
		if v := values[0]; v != "" && v != AllOption {
			s.Filters[col] = v
		}
	}

	switch q.Get("filters") {
	case "0", "false", "off":
		s.ShowFilters = false
	}
	s.Debug = q.Get("debug") == "1"
	s.Dist1 = q.Get("dist1")
	s.Dist2 = q.Get("dist2")
	return s
}

// ParsePageSize parses a page size option; "all" is 0.
func ParsePageSize(raw string) (int, bool) {
	if strings.EqualFold(raw, "all") {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !slices.Contains(PageSizes, n) {
		return 0, false
	}
	return n, true
}

// PageSizeLabel renders a page size option.
func PageSizeLabel(size int) string {
	if size == 0 {
		return "All"
	}
	return strconv.Itoa(size)
}

func (s State) clone() State {
	s.Filters = maps.Clone(s.Filters)
	if s.Filters == nil {
		s.Filters = map[string]string{}
	}
	return s
}

// WithTab switches tab.
func (s State) WithTab(tab string) State {
	c := s.clone()
	c.Tab = tab
	return c
}

// WithPage moves to page n.
func (s State) WithPage(n int) State {
	c := s.clone()
	c.Page = n
	return c
}

// WithPageSize changes the page size and returns to the first page.
func (s State) WithPageSize(size int) State {
	c := s.clone()
	c.PageSize = size
	c.Page = 1
	return c
}

// WithQuery sets the search text.
func (s State) WithQuery(q string) State {
	c := s.clone()
	c.Query = q
	return c
}

// WithFilter sets, or with an empty value clears, an equality filter.
func (s State) WithFilter(column, value string) State {
	c := s.clone()
	if value == "" || value == AllOption {
		delete(c.Filters, column)
	} else {
		c.Filters[column] = value
	}
	return c
}

// WithoutFilters clears every equality filter.
func (s State) WithoutFilters() State {
	c := s.clone()
	c.Filters = map[string]string{}
	return c
}

// HasFilters reports whether any equality filter is set.
func (s State) HasFilters() bool {
	return len(s.Filters) > 0
}

// Filter returns the selected value for column, or AllOption.
func (s State) Filter(column string) string {
	if v, ok := s.Filters[column]; ok {
		return v
	}
	return AllOption
}

// Values encodes the non-default parts of the state.
func (s State) Values() url.Values {
	q := url.Values{}
	if s.Tab != "" && s.Tab != TabData {
		q.Set("tab", s.Tab)
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize != DefaultPageSize {
		if s.PageSize == 0 {
			q.Set("size", "all")
		} else {
			q.Set("size", strconv.Itoa(s.PageSize))
		}
	}
	if s.Query != "" {
		q.Set("q", s.Query)
	}
	for col, v := range s.Filters {
		q.Set(filterPrefix+col, v)
	}
	if !s.ShowFilters {
		q.Set("filters", "0")
	}
	if s.Debug {
		q.Set("debug", "1")
	}
	if s.Dist1 != "" {
		q.Set("dist1", s.Dist1)
	}
	if s.Dist2 != "" {
		q.Set("dist2", s.Dist2)
	}
	return q
}

// Href renders the state as a relative link to the dashboard.
func (s State) Href() string {
	enc := s.Values().Encode()
	if enc == "" {
		return "/"
	}
	return "/?" + enc
}

// FilterParam is the query parameter name of the filter on column.
func FilterParam(column string) string {
	return filterPrefix + column
}
