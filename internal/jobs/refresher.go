package jobs

import (
	"context"
	"log/slog"
	"time"

	"campaigndash/internal/source"
)

// DatasetLoader reloads the cached dataset.
type DatasetLoader interface {
	Load(ctx context.Context, force bool) *source.Dataset
}

// Refresher reloads the dataset in the background so page views rarely wait
// for the source.
type Refresher struct {
	loader   DatasetLoader
	interval time.Duration
}

// NewRefresher creates a refresher reloading every interval.
func NewRefresher(loader DatasetLoader, interval time.Duration) *Refresher {
	return &Refresher{loader: loader, interval: interval}
}

// Start runs the refresh loop until ctx is done.
func (r *Refresher) Start(ctx context.Context) {
	slog.Info("refresher started", "interval", r.interval)

	// Run immediately on start
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ds := r.loader.Load(ctx, true)
	if ds.Sample {
		slog.Warn("background refresh served example data", "warnings", ds.Warnings)
		return
	}
	slog.Debug("background refresh complete", "source", ds.Source, "rows", ds.Table.NumRows())
}
