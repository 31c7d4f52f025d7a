package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

func init() {
	Register("duckdb", func(logger *slog.Logger) Adapter { return NewDuckDBAdapter(logger) })
}

// DuckDBAdapter implements the Adapter interface for DuckDB.
type DuckDBAdapter struct {
	BaseSQLAdapter
}

// NewDuckDBAdapter creates a new DuckDB adapter instance.
// A nil logger is replaced by a discard logger.
func NewDuckDBAdapter(logger *slog.Logger) *DuckDBAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDBAdapter{BaseSQLAdapter: BaseSQLAdapter{Logger: logger}}
}

// Connect establishes a connection to DuckDB.
// An empty path or ":memory:" opens an in-memory database.
func (a *DuckDBAdapter) Connect(ctx context.Context, cfg Config) error {
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.Logger.Debug("connected to duckdb", "path", cfg.Path)
	return nil
}

// GetTableMetadata retrieves metadata for a specified table.
func (a *DuckDBAdapter) GetTableMetadata(ctx context.Context, table string) (*Metadata, error) {
	return a.tableMetadata(ctx, table, "main", "?")
}

// LoadFile loads a CSV, TSV, Parquet or JSON file into a table.
// DuckDB infers the schema from the file contents.
func (a *DuckDBAdapter) LoadFile(ctx context.Context, tableName string, filePath string) error {
	if a.DB == nil {
		return fmt.Errorf("database connection not established")
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	reader, err := fileReader(absPath)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s", QuoteIdent(tableName), reader)
	a.Logger.Debug("loading file", "table", tableName, "path", absPath)
	if err := a.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Base(filePath), err)
	}
	return nil
}

// DialectName returns the SQL dialect name.
func (a *DuckDBAdapter) DialectName() string {
	return "duckdb"
}

// fileReader returns the DuckDB table function that reads path.
func fileReader(path string) (string, error) {
	lit := QuoteLiteral(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return fmt.Sprintf("read_csv_auto(%s, header=true)", lit), nil
	case ".tsv":
		return fmt.Sprintf("read_csv_auto(%s, header=true, delim='\t')", lit), nil
	case ".parquet":
		return fmt.Sprintf("read_parquet(%s)", lit), nil
	case ".json", ".ndjson", ".jsonl":
		return fmt.Sprintf("read_json_auto(%s)", lit), nil
	default:
		return "", fmt.Errorf("unsupported file type %q\nHint: use a .csv, .tsv, .parquet or .json file", filepath.Ext(path))
	}
}

var _ Adapter = (*DuckDBAdapter)(nil)
