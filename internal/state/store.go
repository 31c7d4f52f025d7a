// Package state persists report history in a local SQLite database.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/walkabout-eda/walkabout/internal/report"
)

// ErrNotFound is returned when no report matches an id.
var ErrNotFound = errors.New("report not found")

// AmbiguousIDError is returned when an id prefix matches several reports.
type AmbiguousIDError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousIDError) Error() string {
	return fmt.Sprintf("report id %q is ambiguous, matches %v", e.Prefix, e.Matches)
}

// Summary is the listing form of a saved report.
type Summary struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Rows         int       `json:"rows"`
	Columns      int       `json:"columns"`
	MissingCells int       `json:"missing_cells"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store is the report history interface used by commands and the server.
type Store interface {
	SaveReport(ctx context.Context, r *report.Report) error
	GetReport(ctx context.Context, id string) (*report.Report, error)
	ListReports(ctx context.Context, limit int) ([]Summary, error)
	DeleteReport(ctx context.Context, id string) error
	Close() error
}
