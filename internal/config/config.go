package config

import (
	"errors"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Source kinds.
const (
	SourceGraph  = "graph"
	SourceSheets = "sheets"
	SourceSample = "sample"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Data source
	SourceKind string // graph, sheets or sample
	SheetName  string
	// EditURL links to the worksheet in its editor; shown in the sidebar.
	EditURL string

	// Microsoft Graph (client credentials)
	MSTenantID     string
	MSClientID     string
	MSClientSecret string
	GraphUser      string // UPN of the drive owner
	GraphFileID    string

	// Google Sheets
	GoogleCredentialsFile string
	GoogleSpreadsheetID   string

	// Loading
	CacheTTL            time.Duration
	FetchTimeout        time.Duration
	FetchRetries        int
	AutoRefreshInterval time.Duration // 0 disables the background refresher

	// OIDC login for dashboard users; disabled when the issuer is empty
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for encrypting cookies (32 bytes, base64)
	RedisURL      string // Session storage; in-memory when empty

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limit for export downloads, per client per minute
	ExportRateLimit int
	ExportPrefix    string

	// Logging
	LogLevel  string
	LogFormat string // console, json or auto

	// Site Branding
	SiteTitle   string // env: SITE_TITLE
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":3000"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3000"),

		SourceKind: strings.ToLower(getEnv("SOURCE", SourceGraph)),
		SheetName:  getEnv("SHEET_NAME", "Demandas ID"),
		EditURL:    getEnv("SHEET_EDIT_URL", ""),

		MSTenantID:     getEnv("MS_TENANT_ID", ""),
		MSClientID:     getEnv("MS_CLIENT_ID", ""),
		MSClientSecret: getEnv("MS_CLIENT_SECRET", ""),
		GraphUser:      getEnv("GRAPH_USER", ""),
		GraphFileID:    getEnv("GRAPH_FILE_ID", ""),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),

		CacheTTL:            getDuration("CACHE_TTL", 5*time.Minute),
		FetchTimeout:        getDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchRetries:        getInt("FETCH_RETRIES", 2),
		AutoRefreshInterval: getDuration("AUTO_REFRESH_INTERVAL", 0),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		ExportRateLimit: getInt("EXPORT_RATE_LIMIT", 30),
		ExportPrefix:    getEnv("EXPORT_PREFIX", "campaigns"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "auto"),

		SiteTitle:   getEnv("SITE_TITLE", "Campaign Dashboard"),
		SiteTagline: getEnv("SITE_TAGLINE", "Campaign requests and deadlines"),
		SiteFooter:  getEnv("SITE_FOOTER", "Campaign Dashboard"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d >= 0 {
		return d
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n >= 0 {
		return n
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// OIDCEnabled reports whether dashboard users must log in.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

// HasGraphCredentials reports whether the client-credentials triple is set.
func (c *Config) HasGraphCredentials() bool {
	return c.MSTenantID != "" && c.MSClientID != "" && c.MSClientSecret != ""
}

// Missing lists the settings the configured source and login need but
// lack, sorted.
func (c *Config) Missing() []string {
	var missing []string
	switch c.SourceKind {
	case SourceGraph:
		for key, v := range map[string]string{
			"MS_TENANT_ID":     c.MSTenantID,
			"MS_CLIENT_ID":     c.MSClientID,
			"MS_CLIENT_SECRET": c.MSClientSecret,
			"GRAPH_USER":       c.GraphUser,
			"GRAPH_FILE_ID":    c.GraphFileID,
		} {
			if v == "" {
				missing = append(missing, key)
			}
		}
	case SourceSheets:
		if c.GoogleSpreadsheetID == "" {
			missing = append(missing, "GOOGLE_SPREADSHEET_ID")
		}
	}

	if c.OIDCEnabled() {
		if c.OIDCClientID == "" {
			missing = append(missing, "OIDC_CLIENT_ID")
		}
		if c.SessionSecret == "" {
			missing = append(missing, "SESSION_SECRET")
		}
	}
	slices.Sort(missing)
	return missing
}

// Validate reports settings that make the configured source unusable.
// A misconfigured source still serves the example data at runtime.
func (c *Config) Validate() error {
	switch c.SourceKind {
	case SourceGraph, SourceSheets, SourceSample:
	default:
		return goerr.Wrap(ErrInvalidConfig, "unknown source", goerr.V("source", c.SourceKind))
	}
	if missing := c.Missing(); len(missing) > 0 {
		return goerr.Wrap(ErrInvalidConfig, "missing settings", goerr.V("missing", strings.Join(missing, ", ")))
	}
	return nil
}
