package cli

import (
	"context"
	"log/slog"

	"campaigndash/internal/config"
	"campaigndash/internal/source"
)

// newSource builds the configured worksheet source. A source that cannot be
// configured is replaced by one that always fails, so the dashboard serves
// the example data and shows why.
func newSource(ctx context.Context, cfg *config.Config) source.Source {
	var (
		src source.Source
		err error
	)

	switch cfg.SourceKind {
	case config.SourceSample:
		return source.NewSampleSource()
	case config.SourceSheets:
		src, err = source.NewSheetsSource(ctx, source.SheetsConfig{
			CredentialsFile: cfg.GoogleCredentialsFile,
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			Sheet:           cfg.SheetName,
		})
	default:
		src, err = source.NewGraphSource(source.GraphConfig{
			TenantID:     cfg.MSTenantID,
			ClientID:     cfg.MSClientID,
			ClientSecret: cfg.MSClientSecret,
			User:         cfg.GraphUser,
			FileID:       cfg.GraphFileID,
			Sheet:        cfg.SheetName,
		})
	}
	if err != nil {
		slog.Warn("data source unavailable; serving example data", "source", cfg.SourceKind, "error", err)
		return source.NewUnavailableSource(cfg.SourceKind, err)
	}
	return src
}

// newLoader wraps src in the cached loader configured by cfg.
func newLoader(cfg *config.Config, src source.Source, obs source.Observer) *source.Loader {
	retryCfg := source.DefaultRetry
	retryCfg.MaxRetries = cfg.FetchRetries
	if cfg.FetchTimeout > 0 {
		retryCfg.Timeout = cfg.FetchTimeout
	}

	return source.NewLoader(src, source.LoaderConfig{
		TTL:      cfg.CacheTTL,
		Retry:    retryCfg,
		Observer: obs,
	})
}

// loadConfig reads the environment and YAML configuration, logging problems
// with the source settings.
func loadConfig() (*config.Config, *config.YAMLConfig, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Warn("configuration incomplete", "error", err)
	}

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, yamlCfg, nil
}
