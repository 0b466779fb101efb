package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"campaigndash/internal/table"
)

// SheetsConfig locates a worksheet in a Google spreadsheet.
type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	Sheet           string

	// Extra client options, used by tests to point at a fake endpoint.
	Options []option.ClientOption
}

// SheetsSource reads a worksheet through the Google Sheets API with a
// service account.
type SheetsSource struct {
	cfg     SheetsConfig
	service *sheets.Service
	now     func() time.Time
}

// NewSheetsSource creates the Sheets API client.
func NewSheetsSource(ctx context.Context, cfg SheetsConfig) (*SheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, goerr.Wrap(ErrNotFound, "spreadsheet ID is required")
	}
	opts := cfg.Options
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(ErrAuthFailure, "creating sheets service", goerr.V("cause", err.Error()))
	}
	return &SheetsSource{cfg: cfg, service: service, now: time.Now}, nil
}

// Name labels the source with the worksheet name.
func (s *SheetsSource) Name() string {
	return "Google Sheets - " + s.cfg.Sheet
}

// Check reads the spreadsheet metadata.
func (s *SheetsSource) Check(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Get(s.cfg.SpreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).
		Do()
	if err != nil {
		return wrapGoogle(err, "checking spreadsheet")
	}
	return nil
}

// Fetch reads every used cell of the worksheet. Numbers arrive unformatted
// and dates as their formatted text.
func (s *SheetsSource) Fetch(ctx context.Context) (*Dataset, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, s.cfg.Sheet).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapGoogle(err, "reading sheet values")
	}

	return NewDataset(valuesTable(resp.Values), s.Name(), s.now()), nil
}

func valuesTable(values [][]any) *table.Table {
	if len(values) == 0 {
		return table.Empty()
	}
	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		if h != nil {
			headers[i] = fmt.Sprint(h)
		}
	}
	return table.FromRecords(headers, values[1:])
}

func wrapGoogle(err error, msg string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		kind := FromStatus(apiErr.Code)
		if apiErr.Code == 400 {
			// an unknown sheet name in the range is reported as a bad request
			kind = ErrNotFound
		}
		return goerr.Wrap(kind, msg, goerr.V("status", apiErr.Code), goerr.V("cause", apiErr.Message))
	}
	return wrapTransport(err, msg)
}
