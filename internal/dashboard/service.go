package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"campaigndash/internal/config"
	"campaigndash/internal/deadline"
	"campaigndash/internal/source"
	"campaigndash/internal/table"
	"campaigndash/internal/view"
)

// Export scopes.
const (
	ScopeAll      = "all"
	ScopeSearch   = "search"
	ScopeFiltered = "filtered"
	ScopeCritical = "critical"
)

// ErrNoDeadlines is returned when the critical scope is requested from a
// dataset without a deadline column.
var ErrNoDeadlines = errors.New("dataset has no deadline column")

// ErrUnknownScope is returned for an export scope outside the known ones.
var ErrUnknownScope = errors.New("unknown export scope")

// Loader is the dataset cache the service reads from.
type Loader interface {
	Load(ctx context.Context, force bool) *source.Dataset
	Current() (*source.Dataset, bool)
	Invalidate(clearCredentials bool)
	Check(ctx context.Context) error
	SourceName() string
	TTL() time.Duration
	ExpiresAt() time.Time
	Loaded() bool
}

// Service analyzes the loader's datasets, reusing the analysis of a load
// until the loader produces a new one.
type Service struct {
	loader  Loader
	columns config.ColumnsConfig

	mu     sync.Mutex
	loadID uuid.UUID
	last   *Analysis
}

// NewService creates a service over loader.
func NewService(loader Loader, columns config.ColumnsConfig) *Service {
	return &Service{loader: loader, columns: columns}
}

// Columns returns the configured column roles.
func (s *Service) Columns() config.ColumnsConfig {
	return s.columns
}

// Loader returns the underlying loader.
func (s *Service) Loader() Loader {
	return s.loader
}

// Analysis loads the dataset, from cache when fresh, and returns its
// analysis.
func (s *Service) Analysis(ctx context.Context) *Analysis {
	return s.analyze(s.loader.Load(ctx, false))
}

// Current returns the analysis of the cached dataset without loading.
func (s *Service) Current() (*Analysis, bool) {
	ds, ok := s.loader.Current()
	if !ok {
		return nil, false
	}
	return s.analyze(ds), true
}

// DeadlineSummary reports the label distribution of the cached dataset.
func (s *Service) DeadlineSummary() (deadline.Summary, bool) {
	a, ok := s.Current()
	if !ok || !a.HasDeadlines() {
		return deadline.Summary{}, false
	}
	return a.Summary, true
}

// Ready reports whether a dataset has been loaded at least once.
func (s *Service) Ready() bool {
	return s.loader.Loaded()
}

func (s *Service) analyze(ds *source.Dataset) *Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil && s.loadID == ds.LoadID {
		return s.last
	}
	s.last = Analyze(ds, s.columns)
	s.loadID = ds.LoadID
	return s.last
}

// Select returns the rows of an export scope and a file name suffix
// describing it. Search and filtered scopes use the query and filters of st.
func (a *Analysis) Select(scope string, st view.State) (*table.Table, string, error) {
	switch scope {
	case ScopeAll, "":
		return a.Table, "", nil
	case ScopeSearch:
		return view.Search(a.Table, st.Query), "search_" + st.Query, nil
	case ScopeFiltered:
		return view.FilterEquals(a.Table, st.Filters), "filtered", nil
	case ScopeCritical:
		if !a.HasDeadlines() {
			return nil, "", goerr.Wrap(ErrNoDeadlines, "selecting export rows")
		}
		return a.Deadlines.Critical(), "critical", nil
	default:
		return nil, "", goerr.Wrap(ErrUnknownScope, "selecting export rows", goerr.V("scope", scope))
	}
}
