package validation

import (
	"strings"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty", "", true},
		{"plain", "Crédito Rural", true},
		{"max length", strings.Repeat("á", MaxQueryLength), true},
		{"too long", strings.Repeat("a", MaxQueryLength+1), false},
		{"newline", "a\nb", false},
		{"nul byte", "a\x00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ValidateQuery(tt.query)
			if got != tt.want {
				t.Errorf("ValidateQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestValidateExportFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		valid   bool
		wantMsg string
	}{
		{"csv", "csv", true, ""},
		{"xlsx upper case", "XLSX", true, ""},
		{"json", "json", true, ""},
		{"empty", "", false, "Export format is required"},
		{"pdf", "pdf", false, "Unsupported export format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateExportFormat(tt.format)
			if valid != tt.valid {
				t.Errorf("ValidateExportFormat(%q) valid = %v, want %v", tt.format, valid, tt.valid)
			}
			if msg != tt.wantMsg {
				t.Errorf("ValidateExportFormat(%q) msg = %q, want %q", tt.format, msg, tt.wantMsg)
			}
		})
	}
}

func TestValidateDateFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   bool
	}{
		{"native", "", true},
		{"day first", "DD/MM/YYYY", true},
		{"iso", "YYYY-MM-DD", true},
		{"month first", "MM/DD/YYYY", true},
		{"go layout", "2006-01-02", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ValidateDateFormat(tt.format)
			if got != tt.want {
				t.Errorf("ValidateDateFormat(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestValidateScope(t *testing.T) {
	for _, scope := range append([]string{""}, Scopes...) {
		if ok, _ := ValidateScope(scope); !ok {
			t.Errorf("ValidateScope(%q) = false, want true", scope)
		}
	}
	if ok, _ := ValidateScope("everything"); ok {
		t.Error("ValidateScope(everything) = true, want false")
	}
}

func TestValidateColumns(t *testing.T) {
	available := []string{"ID", "Campanha", "Status"}

	if ok, msg := ValidateColumns([]string{"Status", "ID"}, available); !ok {
		t.Errorf("ValidateColumns() = false (%s), want true", msg)
	}
	if ok, _ := ValidateColumns(nil, available); !ok {
		t.Error("ValidateColumns(nil) = false, want true")
	}
	ok, msg := ValidateColumns([]string{"Prazo"}, available)
	if ok {
		t.Error("ValidateColumns(Prazo) = true, want false")
	}
	if msg != "Unknown column: Prazo" {
		t.Errorf("ValidateColumns(Prazo) msg = %q", msg)
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.sharepoint.com/sites/mkt/doc.xlsx", true, ""},
		{"valid http", "http://example.com", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"data scheme", "data:text/html,<script>alert(1)</script>", false, "URL must use http:// or https:// scheme"},
		{"no host", "https://", false, "URL must have a valid host"},
		{"bad escape", "https://example.com/%zz", false, "Invalid URL format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestValidatePageSize(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"50", true},
		{"500", true},
		{"all", true},
		{"ALL", true},
		{"7", false},
		{"-1", false},
		{"lots", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got, msg := ValidatePageSize(tt.raw); got != tt.want {
				t.Errorf("ValidatePageSize(%q) = %v (%s), want %v", tt.raw, got, msg, tt.want)
			}
		})
	}
}
