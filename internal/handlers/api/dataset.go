package api

import (
	"net/url"

	"github.com/gofiber/fiber/v3"

	"campaigndash/internal/dashboard"
	"campaigndash/internal/models"
	"campaigndash/internal/validation"
	"campaigndash/internal/view"
)

// DatasetHandler serves the dataset and its deadline analysis as JSON.
type DatasetHandler struct {
	svc *dashboard.Service
}

// NewDatasetHandler creates a new API dataset handler.
func NewDatasetHandler(svc *dashboard.Service) *DatasetHandler {
	return &DatasetHandler{svc: svc}
}

// Dataset returns one page of the labelled dataset. It accepts the same
// query parameters as the dashboard: page, size, q and f.<column>.
func (h *DatasetHandler) Dataset(c fiber.Ctx) error {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid query string")
	}
	if ok, msg := validation.ValidatePageSize(q.Get("size")); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	st := view.ParseState(q)
	if ok, msg := validation.ValidateQuery(st.Query); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	a := h.svc.Analysis(c.Context())
	rows := view.FilterEquals(view.Search(a.Table, st.Query), st.Filters)
	page := view.Paginate(rows.NumRows(), st.PageSize, st.Page)

	return jsonSuccess(c, models.DatasetResponse{
		Source:   a.Dataset.Source,
		Sample:   a.Dataset.Sample,
		LoadedAt: a.Dataset.LoadedAt,
		Warnings: a.Dataset.Warnings,
		Page: models.PageResponse{
			Number: page.Number,
			Size:   page.Size,
			Pages:  page.Pages,
			Total:  page.Total,
		},
		Table: models.NewTableResponse(page.Apply(rows)),
	})
}

// Deadlines returns the deadline label distribution.
func (h *DatasetHandler) Deadlines(c fiber.Ctx) error {
	a := h.svc.Analysis(c.Context())
	if !a.HasDeadlines() {
		return jsonError(c, fiber.StatusNotFound, "no deadline column found")
	}
	return jsonSuccess(c, models.NewDeadlineResponse(a.DeadlineColumn, a.Summary))
}

// Critical returns the overdue, due today and urgent rows.
func (h *DatasetHandler) Critical(c fiber.Ctx) error {
	a := h.svc.Analysis(c.Context())
	if !a.HasDeadlines() {
		return jsonError(c, fiber.StatusNotFound, "no deadline column found")
	}
	return jsonSuccess(c, models.CriticalResponse{
		Count: a.Critical.NumRows(),
		Table: models.NewTableResponse(a.Critical),
	})
}
