// Package source loads the campaign worksheet from a hosted document store.
package source

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campaigndash/internal/table"
)

// Dataset is one load of the worksheet. It is never modified after Load
// returns it.
type Dataset struct {
	Table    *table.Table
	Source   string
	LoadID   uuid.UUID
	LoadedAt time.Time
	Sample   bool
	Warnings []string
	// Err is the source error that caused the sample substitution, if any.
	Err error
}

// NewDataset stamps a freshly loaded table.
func NewDataset(t *table.Table, source string, now time.Time) *Dataset {
	return &Dataset{
		Table:    t,
		Source:   source,
		LoadID:   uuid.New(),
		LoadedAt: now,
	}
}

// Source fetches the worksheet from a remote document store.
type Source interface {
	// Name labels the source in the UI, exports and metrics.
	Name() string
	// Fetch downloads and parses the worksheet.
	Fetch(ctx context.Context) (*Dataset, error)
	// Check verifies that credentials can be obtained.
	Check(ctx context.Context) error
}
