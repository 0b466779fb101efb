package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"campaigndash/internal/cache"
	"campaigndash/internal/retry"
)

// DefaultTTL is how long a loaded dataset is served before the next load.
const DefaultTTL = 5 * time.Minute

// Observer receives the outcome of every fetch.
type Observer interface {
	ObserveLoad(source, outcome string, duration time.Duration, rows int)
}

// credentialResetter is implemented by sources that cache access tokens.
type credentialResetter interface {
	ResetCredentials()
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	TTL      time.Duration
	Retry    retry.Config
	Observer Observer
}

// DefaultRetry retries timeouts and unknown failures a couple of times.
var DefaultRetry = retry.Config{
	MaxRetries: 2,
	BaseDelay:  500 * time.Millisecond,
	MaxDelay:   5 * time.Second,
	Timeout:    30 * time.Second,
	Retryable:  Retryable,
}

// Loader owns the dataset cache entry. Loads are serialized: concurrent
// callers wait for the load in flight and share its result. Readers of the
// entry never wait for a fetch.
type Loader struct {
	src      Source
	fallback *SampleSource
	cfg      LoaderConfig
	now      func() time.Time

	// loadMu serializes fetches; mu guards entry and loaded.
	loadMu sync.Mutex
	mu     sync.Mutex
	entry  cache.Entry[*Dataset]
	loaded bool
}

// NewLoader creates a loader over src.
func NewLoader(src Source, cfg LoaderConfig) *Loader {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = Retryable
	}
	return &Loader{
		src:      src,
		fallback: NewSampleSource(),
		cfg:      cfg,
		now:      time.Now,
	}
}

// SourceName returns the configured source label.
func (l *Loader) SourceName() string {
	return l.src.Name()
}

// TTL returns the cache lifetime of a dataset.
func (l *Loader) TTL() time.Duration {
	return l.cfg.TTL
}

// Load returns the cached dataset, fetching a new one when the entry has
// expired or force is set. Load never fails: when the source errors the
// example dataset is returned with Sample set and a warning attached.
func (l *Loader) Load(ctx context.Context, force bool) *Dataset {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	if !force {
		if ds, ok := l.Current(); ok {
			return ds
		}
	}

	ds := l.fetch(ctx)

	l.mu.Lock()
	l.entry = cache.NewEntry(ds, l.cfg.TTL, l.now())
	l.loaded = true
	l.mu.Unlock()
	return ds
}

// Loaded reports whether a dataset, real or sample, has been loaded since
// the loader was created. Invalidate does not reset it.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Current returns the cached dataset without loading.
func (l *Loader) Current() (*Dataset, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.entry.Valid(l.now()) {
		return nil, false
	}
	return l.entry.Value, true
}

// ExpiresAt returns when the cached dataset goes stale.
func (l *Loader) ExpiresAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entry.ExpiresAt
}

// Invalidate drops the cached dataset. With clearCredentials the source's
// cached access token is dropped too.
func (l *Loader) Invalidate(clearCredentials bool) {
	l.mu.Lock()
	l.entry = cache.Entry[*Dataset]{}
	l.mu.Unlock()

	if clearCredentials {
		if r, ok := l.src.(credentialResetter); ok {
			r.ResetCredentials()
		}
	}
}

// Check verifies the source credentials.
func (l *Loader) Check(ctx context.Context) error {
	if l.cfg.Retry.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.Retry.Timeout)
		defer cancel()
	}
	return l.src.Check(ctx)
}

func (l *Loader) fetch(ctx context.Context) *Dataset {
	start := l.now()
	ds, err := retry.WithRetry(ctx, l.cfg.Retry, l.src.Fetch)
	elapsed := l.now().Sub(start)

	if err == nil && ds != nil && ds.Table != nil && ds.Table.NumCols() > 0 && ds.Table.NumRows() > 0 {
		l.observe(KindOf(nil), elapsed, ds.Table.NumRows())
		slog.Info("dataset loaded",
			"source", ds.Source,
			"load_id", ds.LoadID.String(),
			"rows", ds.Table.NumRows(),
			"columns", ds.Table.NumCols(),
			"duration", elapsed,
		)
		return ds
	}
	if err == nil {
		err = ErrParseFailure
	}

	kind := KindOf(err)
	l.observe(kind, elapsed, 0)
	slog.Warn("source unavailable, serving example data",
		"source", l.src.Name(),
		"kind", kind,
		"error", err,
	)

	sample, _ := l.fallback.Fetch(ctx)
	sample.Err = Classify(err)
	sample.Warnings = append(sample.Warnings,
		Message(err),
		"Showing example data. The real data could not be loaded.",
	)
	return sample
}

func (l *Loader) observe(outcome string, d time.Duration, rows int) {
	if l.cfg.Observer != nil {
		l.cfg.Observer.ObserveLoad(l.src.Name(), outcome, d, rows)
	}
}
