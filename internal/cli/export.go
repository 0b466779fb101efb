package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"campaigndash/internal/dashboard"
	"campaigndash/internal/export"
	"campaigndash/internal/table"
	"campaigndash/internal/validation"
	"campaigndash/internal/view"
)

func cmdExport() *cli.Command {
	var (
		format     string
		scope      string
		query      string
		filters    []string
		columns    []string
		dateFormat string
		out        string
		noMeta     bool
		critical   bool
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Load the worksheet once and write it to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format (csv, xlsx, json)",
				Value:       string(export.FormatCSV),
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "scope",
				Usage:       "Rows to export (all, search, filtered, critical)",
				Value:       dashboard.ScopeAll,
				Destination: &scope,
			},
			&cli.BoolFlag{
				Name:        "critical",
				Usage:       "Shorthand for --scope critical",
				Destination: &critical,
			},
			&cli.StringFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "Search text for the search scope",
				Destination: &query,
			},
			&cli.StringSliceFlag{
				Name:        "filter",
				Usage:       "Column=Value equality filter for the filtered scope; repeatable",
				Destination: &filters,
			},
			&cli.StringSliceFlag{
				Name:        "column",
				Usage:       "Column to include, in order; repeatable. Defaults to all columns",
				Destination: &columns,
			},
			&cli.StringFlag{
				Name:        "date-format",
				Usage:       "Render dates as text (DD/MM/YYYY, YYYY-MM-DD, MM/DD/YYYY); native dates when empty",
				Destination: &dateFormat,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "Output path, or - for stdout. Defaults to a timestamped file name",
				Destination: &out,
			},
			&cli.BoolFlag{
				Name:        "no-metadata",
				Usage:       "Leave out the XLSX metadata sheet",
				Destination: &noMeta,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if critical {
				scope = dashboard.ScopeCritical
			}
			if ok, msg := validation.ValidateExportFormat(format); !ok {
				return goerr.New(msg, goerr.V("format", format))
			}
			if ok, msg := validation.ValidateScope(scope); !ok {
				return goerr.New(msg, goerr.V("scope", scope))
			}
			if ok, msg := validation.ValidateQuery(query); !ok {
				return goerr.New(msg)
			}
			if ok, msg := validation.ValidateDateFormat(dateFormat); !ok {
				return goerr.New(msg, goerr.V("date_format", dateFormat))
			}
			st, err := exportState(query, filters)
			if err != nil {
				return err
			}

			cfg, yamlCfg, err := loadConfig()
			if err != nil {
				return err
			}

			loader := newLoader(cfg, newSource(ctx, cfg), nil)
			svc := dashboard.NewService(loader, yamlCfg.Columns)
			a := svc.Analysis(ctx)
			if a.Dataset.Sample {
				slog.Warn("exporting example data", slog.Any("warnings", a.Dataset.Warnings))
			}

			rows, suffix, err := a.Select(scope, st)
			if err != nil {
				return goerr.Wrap(err, "selecting rows", goerr.V("scope", scope))
			}
			if ok, msg := validation.ValidateColumns(columns, rows.Names()); !ok {
				return goerr.New(msg)
			}

			prepared, err := export.Prepare(rows, export.Options{
				Columns:    columns,
				DateFormat: export.DateFormat(dateFormat),
			})
			if err != nil {
				return err
			}

			f, _ := export.ParseFormat(format)
			now := time.Now()
			var meta *export.Metadata
			if !noMeta {
				meta = export.NewMetadata(prepared, a.Dataset.Source, now)
			}

			if out == "" {
				out = export.FileName(cfg.ExportPrefix, suffix, f, now)
			}
			if err := writeExport(out, c.Root().Writer, f, prepared, meta); err != nil {
				return err
			}

			slog.Info("export written",
				slog.String("path", out),
				slog.String("format", format),
				slog.String("scope", scope),
				slog.Int("rows", prepared.NumRows()),
			)
			return nil
		},
	}
}

// exportState builds the view state the search and filtered scopes read.
func exportState(query string, filters []string) (view.State, error) {
	st := view.DefaultState()
	st.Query = query
	for _, f := range filters {
		col, value, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return st, goerr.New("filter must be Column=Value", goerr.V("filter", f))
		}
		if value != "" && value != view.AllOption {
			st.Filters[strings.TrimSpace(col)] = value
		}
	}
	return st, nil
}

func writeExport(path string, stdout io.Writer, format export.Format, t *table.Table, meta *export.Metadata) error {
	if path == "-" {
		return export.Write(stdout, format, t, meta)
	}

	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "creating output file", goerr.V("path", path))
	}
	if err := export.Write(f, format, t, meta); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "writing export", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "closing output file", goerr.V("path", path))
	}
	return nil
}
