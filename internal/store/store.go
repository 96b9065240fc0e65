// Package store persists enriched analytics tables. LinkedIn's export
// schemas drift between product versions, so rows are stored as JSON
// documents keyed by a stable logical table id rather than as wide
// columns migrated on every drift.
package store

import (
	"context"

	"github.com/ignite/linkedin-analytics-etl/internal/linkedin"
)

// Batch is one table-shaped payload headed for a destination table.
type Batch struct {
	Table      string
	Mode       linkedin.WriteMode
	Headers    []string
	Records    []map[string]string
	RunID      string
	SourceFile string
	ReportType string
	// DateColumn, when set, names the column whose value becomes the
	// row's sortable date key. Values that don't look like dates leave
	// the key empty instead of storing garbage.
	DateColumn string
}

// ImportLogEntry is one ledger line per processed file.
type ImportLogEntry struct {
	RunID      string
	SourceFile string
	ReportType string
	Table      string
	Rows       int
	Status     string
	Error      string
}

// Ledger statuses.
const (
	StatusImported = "imported"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// TabularStore is the destination the pipeline writes batches to.
type TabularStore interface {
	Write(ctx context.Context, batch Batch) (int, error)
	LogImport(ctx context.Context, entry ImportLogEntry) error
	Close() error
}

// dateKeyFor extracts the sortable date key for one record, guarding
// against range-shaped values that merely resemble dates.
func dateKeyFor(rec map[string]string, dateColumn string) string {
	if dateColumn == "" {
		return ""
	}
	v := rec[dateColumn]
	if v == "" || !linkedin.LooksLikeDate(v) {
		return ""
	}
	fd := linkedin.ParseFlexibleDate(v)
	if !fd.Parsed {
		return ""
	}
	return fd.ISO()
}
