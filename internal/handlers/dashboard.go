package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"campaigndash/internal/config"
	"campaigndash/internal/dashboard"
	"campaigndash/internal/deadline"
	"campaigndash/internal/export"
	"campaigndash/internal/source"
	"campaigndash/internal/validation"
	"campaigndash/internal/view"
)

// maxBars is the number of values shown in a distribution chart.
const maxBars = 15

var tabLabels = map[string]string{
	view.TabData:   "Data",
	view.TabStats:  "Statistics",
	view.TabSearch: "Search",
	view.TabExport: "Export",
}

// DashboardHandler renders the dashboard page and its actions.
type DashboardHandler struct {
	svc *dashboard.Service
	cfg *config.Config
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *dashboard.Service, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{svc: svc, cfg: cfg}
}

// TabLink is one entry of the tab bar.
type TabLink struct {
	Label  string
	Href   string
	Active bool
}

// Option is a selectable link such as a page size.
type Option struct {
	Label  string
	Href   string
	Active bool
}

// ExportLink is a download link for one format.
type ExportLink struct {
	Format string
	Label  string
	Href   string
}

// Header holds the metrics shown above the tabs.
type Header struct {
	Rows           int
	Columns        int
	Latest         string
	RefreshMinutes int
}

// DataTab is the paginated table view.
type DataTab struct {
	Grid      Grid
	Page      view.Page
	PrevHref  string
	NextHref  string
	PageSizes []Option
}

// StatsTab holds the descriptive statistics.
type StatsTab struct {
	Describe    *Grid
	Columns     []view.ColumnSummary
	Categorical []string
	Dist1       string
	Dist2       string
	Bars1       []view.Bar
	Bars2       []view.Bar
	MemoryKB    float64
}

// SearchTab holds the text search and advanced filter results.
type SearchTab struct {
	Query         string
	Results       *Grid
	ResultCount   int
	SearchExports []ExportLink
	Filters       []view.Filter
	ShowFilters   bool
	Filtered      *Grid
	FilteredCount int
	FilterExports []ExportLink
	ClearHref     string
}

// ExportTab holds the export choices.
type ExportTab struct {
	Formats     []export.FormatInfo
	Columns     []string
	DateFormats []export.DateFormat
	AllExports  []ExportLink
}

// DeadlineSection is the deadline analysis block.
type DeadlineSection struct {
	Column          string
	Summary         deadline.Summary
	Bars            []DeadlineBar
	Critical        Grid
	CriticalCount   int
	CriticalExports []ExportLink
}

// DeadlineBar is one label of the deadline distribution.
type DeadlineBar struct {
	Label   string
	Slug    string
	Count   int
	Percent string
	Width   float64
}

// Sidebar describes the data source.
type Sidebar struct {
	Source    string
	Sheet     string
	EditURL   string
	Sample    bool
	Warnings  []string
	LoadedAt  string
	ExpiresAt string
	Debug     *DebugInfo
}

// DebugInfo is shown when the debug flag is set.
type DebugInfo struct {
	Env            string
	SourceKind     string
	HasCredentials bool
	Missing        []string
	LoadID         string
	TTL            string
}

// Index renders the dashboard.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	st := requestState(c)
	if ok, msg := validation.ValidateQuery(st.Query); !ok {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	a := h.svc.Analysis(c.Context())

	data := MergeBranding(fiber.Map{
		"Title":   "Dashboard",
		"User":    currentUser(c),
		"State":   st,
		"Tab":     st.Tab,
		"Tabs":    tabLinks(st),
		"Header":  h.header(a),
		"Sidebar": h.sidebar(a, st),
		"Return":  st.Href(),
	}, h.cfg)

	switch st.Tab {
	case view.TabStats:
		data["Stats"] = statsTab(a, st)
	case view.TabSearch:
		data["Search"] = h.searchTab(a, st)
	case view.TabExport:
		data["Export"] = exportTab(a, st)
	default:
		data["Data"] = dataTab(a, st)
	}

	if a.HasDeadlines() {
		data["Deadlines"] = deadlineSection(a, st)
	}
	if a.Campaigns != nil {
		g := newGrid(a.Campaigns, "", 0)
		data["Campaigns"] = &g
	}

	return c.Render("dashboard", data)
}

// Refresh drops the cached dataset so the next page load fetches it again.
func (h *DashboardHandler) Refresh(c fiber.Ctx) error {
	h.svc.Loader().Invalidate(false)
	return c.Redirect().Status(fiber.StatusSeeOther).To(safeReturn(c.FormValue("return")))
}

// ClearCache drops the cached dataset and the source access token.
func (h *DashboardHandler) ClearCache(c fiber.Ctx) error {
	h.svc.Loader().Invalidate(true)
	return c.Redirect().Status(fiber.StatusSeeOther).To(safeReturn(c.FormValue("return")))
}

// CheckConnection verifies the source credentials and renders the result.
func (h *DashboardHandler) CheckConnection(c fiber.Ctx) error {
	loader := h.svc.Loader()
	err := loader.Check(c.Context())

	data := fiber.Map{
		"Source": loader.SourceName(),
		"OK":     err == nil,
	}
	if err != nil {
		data["Kind"] = source.KindOf(err)
		data["Message"] = source.Message(err)
	}

	if isHTMX(c) {
		return c.Render("partials/connection", data, "")
	}
	return c.Render("connection", MergeBranding(data, h.cfg))
}

func tabLinks(st view.State) []TabLink {
	links := make([]TabLink, 0, len(view.Tabs))
	for _, tab := range view.Tabs {
		links = append(links, TabLink{
			Label:  tabLabels[tab],
			Href:   st.WithTab(tab).WithPage(1).Href(),
			Active: st.Tab == tab,
		})
	}
	return links
}

func (h *DashboardHandler) header(a *dashboard.Analysis) Header {
	hd := Header{
		Rows:           a.Table.NumRows(),
		Columns:        a.Dataset.Table.NumCols(),
		Latest:         "N/A",
		RefreshMinutes: int(h.svc.Loader().TTL().Minutes()),
	}
	if a.HasLatest {
		hd.Latest = a.LatestDate.Format("02/01/2006")
	}
	return hd
}

func (h *DashboardHandler) sidebar(a *dashboard.Analysis, st view.State) Sidebar {
	sb := Sidebar{
		Source:   a.Dataset.Source,
		Sheet:    h.cfg.SheetName,
		Sample:   a.Dataset.Sample,
		Warnings: a.Dataset.Warnings,
		LoadedAt: a.Dataset.LoadedAt.Format("02/01/2006 15:04:05"),
	}
	if ok, _ := validation.ValidateURL(h.cfg.EditURL); ok {
		sb.EditURL = h.cfg.EditURL
	}
	if exp := h.svc.Loader().ExpiresAt(); !exp.IsZero() {
		sb.ExpiresAt = exp.Format("15:04:05")
	}
	if st.Debug {
		sb.Debug = &DebugInfo{
			Env:            h.cfg.Env,
			SourceKind:     h.cfg.SourceKind,
			HasCredentials: h.cfg.HasGraphCredentials(),
			Missing:        h.cfg.Missing(),
			LoadID:         a.Dataset.LoadID.String(),
			TTL:            h.svc.Loader().TTL().String(),
		}
	}
	return sb
}

func dataTab(a *dashboard.Analysis, st view.State) *DataTab {
	page := view.Paginate(a.Table.NumRows(), st.PageSize, st.Page)
	tab := &DataTab{
		Grid:     newGrid(page.Apply(a.Table), labelColumn(a), page.Start),
		Page:     page,
		PrevHref: st.WithPage(page.Prev()).Href(),
		NextHref: st.WithPage(page.Next()).Href(),
	}
	for _, size := range view.PageSizes {
		tab.PageSizes = append(tab.PageSizes, Option{
			Label:  view.PageSizeLabel(size),
			Href:   st.WithPageSize(size).Href(),
			Active: size == st.PageSize,
		})
	}
	return tab
}

func statsTab(a *dashboard.Analysis, st view.State) *StatsTab {
	t := a.Dataset.Table
	tab := &StatsTab{
		Columns:     view.ColumnInfo(t),
		Categorical: view.CategoricalColumns(t),
		MemoryKB:    float64(view.ApproxBytes(t)) / 1024,
	}
	if d := view.Describe(t); d != nil {
		g := newGrid(d, "", 0)
		tab.Describe = &g
	}

	tab.Dist1 = pickColumn(tab.Categorical, st.Dist1, 0)
	tab.Dist2 = pickColumn(tab.Categorical, st.Dist2, 1)
	if tab.Dist1 != "" {
		tab.Bars1 = view.Bars(view.ValueCounts(t, tab.Dist1), maxBars)
	}
	if tab.Dist2 != "" {
		tab.Bars2 = view.Bars(view.ValueCounts(t, tab.Dist2), maxBars)
	}
	return tab
}

// pickColumn returns requested when it is one of columns, otherwise the
// column at fallback (or the last one).
func pickColumn(columns []string, requested string, fallback int) string {
	if len(columns) == 0 {
		return ""
	}
	for _, c := range columns {
		if c == requested {
			return c
		}
	}
	return columns[min(fallback, len(columns)-1)]
}

func (h *DashboardHandler) searchTab(a *dashboard.Analysis, st view.State) *SearchTab {
	tab := &SearchTab{
		Query:       st.Query,
		Filters:     view.Filters(a.Table, h.svc.Columns().Filters, st),
		ShowFilters: st.ShowFilters,
		ClearHref:   st.WithoutFilters().Href(),
	}

	if st.Query != "" {
		results := view.Search(a.Table, st.Query)
		g := newGrid(results, labelColumn(a), 0)
		tab.Results = &g
		tab.ResultCount = results.NumRows()
		tab.SearchExports = exportLinks(st, dashboard.ScopeSearch)
	}

	if st.HasFilters() {
		filtered := view.FilterEquals(a.Table, st.Filters)
		g := newGrid(filtered, labelColumn(a), 0)
		tab.Filtered = &g
		tab.FilteredCount = filtered.NumRows()
		tab.FilterExports = exportLinks(st, dashboard.ScopeFiltered)
	}
	return tab
}

func exportTab(a *dashboard.Analysis, st view.State) *ExportTab {
	tab := &ExportTab{
		Columns:     a.Table.Names(),
		DateFormats: export.DateFormats,
		AllExports:  exportLinks(st, dashboard.ScopeAll),
	}
	for _, f := range export.Formats() {
		info, _ := export.GetFormatInfo(f)
		tab.Formats = append(tab.Formats, info)
	}
	return tab
}

func deadlineSection(a *dashboard.Analysis, st view.State) *DeadlineSection {
	sec := &DeadlineSection{
		Column:          a.DeadlineColumn,
		Summary:         a.Summary,
		Critical:        newGrid(a.Critical, labelColumn(a), 0),
		CriticalCount:   a.Summary.Critical,
		CriticalExports: exportLinks(st, dashboard.ScopeCritical),
	}
	for _, b := range a.Summary.Buckets {
		sec.Bars = append(sec.Bars, DeadlineBar{
			Label:   b.Name,
			Slug:    b.Label.Slug(),
			Count:   b.Count,
			Percent: b.PercentText(),
			Width:   b.Percent,
		})
	}
	return sec
}

func labelColumn(a *dashboard.Analysis) string {
	if !a.HasDeadlines() {
		return ""
	}
	return a.Deadlines.LabelColumn
}

// exportLinks builds one download link per format for scope, carrying the
// search text and filters of st.
func exportLinks(st view.State, scope string) []ExportLink {
	links := make([]ExportLink, 0, len(export.FormatRegistry))
	for _, f := range export.Formats() {
		info, _ := export.GetFormatInfo(f)
		links = append(links, ExportLink{
			Format: string(f),
			Label:  info.Description,
			Href:   exportHref(st, f, scope),
		})
	}
	return links
}

func exportHref(st view.State, format export.Format, scope string) string {
	q := url.Values{}
	if scope != dashboard.ScopeAll {
		q.Set("scope", scope)
	}
	switch scope {
	case dashboard.ScopeSearch:
		q.Set("q", st.Query)
	case dashboard.ScopeFiltered:
		for col, v := range st.Filters {
			q.Set(view.FilterParam(col), v)
		}
	}
	href := "/export/" + string(format)
	if len(q) > 0 {
		href += "?" + q.Encode()
	}
	return href
}

// safeReturn keeps redirects on this site.
func safeReturn(raw string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}
