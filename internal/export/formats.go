// Package export serializes tables to downloadable files.
package export

import (
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"campaigndash/internal/table"
)

// Format is an export file format identifier.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for format names missing from the registry.
var ErrUnknownFormat = errors.New("unknown export format")

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string

	write func(w io.Writer, t *table.Table, meta *Metadata) error
}

// FormatRegistry contains every supported format.
var FormatRegistry = map[Format]FormatInfo{
	FormatCSV: {
		Name:        FormatCSV,
		MIMEType:    "text/csv; charset=utf-8",
		Extension:   ".csv",
		Description: "CSV (UTF-8 with BOM)",
		write: func(w io.Writer, t *table.Table, _ *Metadata) error {
			return WriteCSV(w, t)
		},
	},
	FormatXLSX: {
		Name:        FormatXLSX,
		MIMEType:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Extension:   ".xlsx",
		Description: "Excel workbook",
		write:       WriteXLSX,
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json; charset=utf-8",
		Extension:   ".json",
		Description: "JSON records",
		write: func(w io.Writer, t *table.Table, _ *Metadata) error {
			return WriteJSON(w, t)
		},
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat looks a format up by name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := FormatRegistry[f]; !ok {
		return "", goerr.Wrap(ErrUnknownFormat, "parsing export format", goerr.V("format", name))
	}
	return f, nil
}

// Formats lists the registered formats by name.
func Formats() []Format {
	formats := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Write serializes t in the given format. meta is only used by formats that
// carry a metadata section.
func Write(w io.Writer, format Format, t *table.Table, meta *Metadata) error {
	info, ok := GetFormatInfo(format)
	if !ok {
		return goerr.Wrap(ErrUnknownFormat, "writing export", goerr.V("format", string(format)))
	}
	return info.write(w, t, meta)
}

// FileName builds a download name such as campaigns_search_20240105_1430.csv.
// The suffix is reduced to characters that are safe in file names.
func FileName(prefix, suffix string, format Format, now time.Time) string {
	parts := []string{prefix}
	if s := sanitize(suffix); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, now.Format("20060102_1504"))

	ext := "." + string(format)
	if info, ok := GetFormatInfo(format); ok {
		ext = info.Extension
	}
	return strings.Join(parts, "_") + ext
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(s))
	return strings.Trim(s, "_")
}
