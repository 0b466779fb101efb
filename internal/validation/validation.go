package validation

import (
	"net/url"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"campaigndash/internal/dashboard"
	"campaigndash/internal/export"
	"campaigndash/internal/view"
)

// MaxQueryLength bounds the free-text search.
const MaxQueryLength = 200

// Scopes lists the export scopes.
var Scopes = []string{dashboard.ScopeAll, dashboard.ScopeSearch, dashboard.ScopeFiltered, dashboard.ScopeCritical}

// ValidateQuery checks a search query: bounded length and no control
// characters.
func ValidateQuery(q string) (bool, string) {
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return false, "Search text is too long"
	}
	if strings.IndexFunc(q, unicode.IsControl) >= 0 {
		return false, "Search text contains invalid characters"
	}
	return true, ""
}

// ValidateExportFormat checks an export format name against the registry.
func ValidateExportFormat(name string) (bool, string) {
	if name == "" {
		return false, "Export format is required"
	}
	if _, err := export.ParseFormat(name); err != nil {
		return false, "Unsupported export format"
	}
	return true, ""
}

// ValidateDateFormat checks a date format choice; empty keeps native dates.
func ValidateDateFormat(name string) (bool, string) {
	if name == "" {
		return true, ""
	}
	if _, ok := export.DateFormat(name).Layout(); !ok {
		return false, "Unsupported date format"
	}
	return true, ""
}

// ValidateScope checks an export scope.
func ValidateScope(scope string) (bool, string) {
	if scope == "" || slices.Contains(Scopes, scope) {
		return true, ""
	}
	return false, "Unknown export scope"
}

// ValidatePageSize checks a page size choice; empty keeps the default.
func ValidatePageSize(raw string) (bool, string) {
	if raw == "" {
		return true, ""
	}
	if _, ok := view.ParsePageSize(raw); !ok {
		return false, "Page size must be 50, 100, 200, 500 or all"
	}
	return true, ""
}

// ValidateColumns checks that every requested column exists.
func ValidateColumns(requested, available []string) (bool, string) {
	for _, name := range requested {
		if !slices.Contains(available, name) {
			return false, "Unknown column: " + name
		}
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
