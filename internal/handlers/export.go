package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v3"

	"campaigndash/internal/config"
	"campaigndash/internal/dashboard"
	"campaigndash/internal/export"
	"campaigndash/internal/validation"
	"campaigndash/internal/view"
)

// ExportRecorder counts completed exports.
type ExportRecorder interface {
	RecordExport(format, scope string)
}

// ExportHandler serves file downloads of the dataset.
type ExportHandler struct {
	svc      *dashboard.Service
	cfg      *config.Config
	recorder ExportRecorder
	now      func() time.Time
}

// NewExportHandler creates a new export handler. recorder may be nil.
func NewExportHandler(svc *dashboard.Service, cfg *config.Config, recorder ExportRecorder) *ExportHandler {
	return &ExportHandler{svc: svc, cfg: cfg, recorder: recorder, now: time.Now}
}

// Download writes the rows of the requested scope in the requested format.
//
// Query parameters: scope (all, search, filtered, critical), q and f.<column>
// for the search and filtered scopes, cols (repeatable) to pick columns,
// date to render dates as text and meta=0 to leave out the XLSX metadata
// sheet.
func (h *ExportHandler) Download(c fiber.Ctx) error {
	name := c.Params("format")
	if name == "" {
		name = c.Query("format")
	}
	if ok, msg := validation.ValidateExportFormat(name); !ok {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}
	format, _ := export.ParseFormat(name)

	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query string")
	}
	st := view.ParseState(q)
	scope := q.Get("scope")
	if scope == "" {
		scope = dashboard.ScopeAll
	}
	if ok, msg := validation.ValidateScope(scope); !ok {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}
	if ok, msg := validation.ValidateQuery(st.Query); !ok {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}
	dateFormat := q.Get("date")
	if ok, msg := validation.ValidateDateFormat(dateFormat); !ok {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	a := h.svc.Analysis(c.Context())
	rows, suffix, err := a.Select(scope, st)
	if err != nil {
		if errors.Is(err, dashboard.ErrNoDeadlines) {
			return fiber.NewError(fiber.StatusNotFound, "No deadline column found in the data")
		}
		return fiber.NewError(fiber.StatusBadRequest, "Unknown export scope")
	}

	columns := q["cols"]
	if ok, msg := validation.ValidateColumns(columns, rows.Names()); !ok {
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	out, err := export.Prepare(rows, export.Options{
		Columns:    columns,
		DateFormat: export.DateFormat(dateFormat),
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not prepare export")
	}

	now := h.now()
	var meta *export.Metadata
	if q.Get("meta") != "0" {
		meta = export.NewMetadata(out, a.Dataset.Source, now)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, out, meta); err != nil {
		slog.Error("export failed", "format", format, "scope", scope, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Export failed")
	}

	if h.recorder != nil {
		h.recorder.RecordExport(string(format), scope)
	}

	info, _ := export.GetFormatInfo(format)
	c.Attachment(export.FileName(h.cfg.ExportPrefix, suffix, format, now))
	c.Set(fiber.HeaderContentType, info.MIMEType)
	return c.Send(buf.Bytes())
}
