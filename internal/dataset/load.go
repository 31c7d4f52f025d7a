package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/walkabout-eda/walkabout/internal/adapter"
)

// Source identifies where a dataset comes from. Exactly one of Path, Table
// or Query is set.
type Source struct {
	// Path is a data file materialised into a table through the adapter.
	Path string
	// Table is an existing table, optionally schema-qualified.
	Table string
	// Query is an arbitrary SELECT statement.
	Query string
	// Limit caps the number of rows read; zero means no limit.
	Limit int
}

var fileExtensions = map[string]bool{
	".csv": true, ".tsv": true, ".parquet": true,
	".json": true, ".ndjson": true, ".jsonl": true,
}

// ParseSource interprets a command-line argument. Arguments with a known
// data file extension, or naming an existing file, are paths; anything
// else is a table name.
func ParseSource(arg string) Source {
	if fileExtensions[strings.ToLower(filepath.Ext(arg))] {
		return Source{Path: arg}
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return Source{Path: arg}
	}
	return Source{Table: arg}
}

// String returns a short description used in reports and logs.
func (s Source) String() string {
	switch {
	case s.Path != "":
		return s.Path
	case s.Table != "":
		return s.Table
	case s.Query != "":
		return "query: " + s.Query
	default:
		return "<empty>"
	}
}

// Validate checks that exactly one origin is set.
func (s Source) Validate() error {
	n := 0
	for _, v := range []string{s.Path, s.Table, s.Query} {
		if v != "" {
			n++
		}
	}
	switch {
	case n == 0:
		return fmt.Errorf("no data source given\nHint: pass a file path, a table name, or --query")
	case n > 1:
		return fmt.Errorf("a source must be exactly one of a file, a table or a query")
	case s.Limit < 0:
		return fmt.Errorf("limit must not be negative, got %d", s.Limit)
	}
	return nil
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// TableName returns the table a file source is loaded into.
func (s Source) TableName() string {
	if s.Path == "" {
		return s.Table
	}
	base := strings.TrimSuffix(filepath.Base(s.Path), filepath.Ext(s.Path))
	return "walkabout_" + strings.ToLower(nonIdent.ReplaceAllString(base, "_"))
}

// selectSQL returns the statement that reads the source.
func (s Source) selectSQL() string {
	var q string
	if s.Query != "" {
		q = "SELECT * FROM (" + strings.TrimRight(strings.TrimSpace(s.Query), ";") + ") AS src"
	} else {
		schema, name := adapter.ParseQualifiedName(s.TableName(), "")
		if schema != "" {
			q = "SELECT * FROM " + adapter.QuoteIdent(schema) + "." + adapter.QuoteIdent(name)
		} else {
			q = "SELECT * FROM " + adapter.QuoteIdent(name)
		}
	}
	if s.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", s.Limit)
	}
	return q
}

// Load reads src through a connected adapter into a frame.
func Load(ctx context.Context, a adapter.Adapter, src Source) (*Frame, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	if src.Path != "" {
		if err := a.LoadFile(ctx, src.TableName(), src.Path); err != nil {
			return nil, err
		}
	}

	rows, err := a.Query(ctx, src.selectSQL())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	defer func() { _ = rows.Close() }()

	f, err := FromRows(rows.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return f, nil
}

// Describe records the declared type and nullability of each column of f
// from the table src reads. Query sources have no declared columns and
// leave f unchanged.
func Describe(ctx context.Context, a adapter.Adapter, src Source, f *Frame) error {
	if src.Query != "" {
		return nil
	}
	md, err := a.GetTableMetadata(ctx, src.TableName())
	if err != nil {
		return fmt.Errorf("failed to describe %s: %w", src, err)
	}

	declared := make(map[string]adapter.Column, len(md.Columns))
	for _, c := range md.Columns {
		declared[c.Name] = c
	}
	for _, col := range f.Columns {
		if c, ok := declared[col.Name]; ok {
			col.SQLType, col.Nullable = c.Type, c.Nullable
		}
	}
	return nil
}
