package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/walkabout-eda/walkabout/internal/report"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// OpenStore opens the store at path, creating parent directories, and
// applies migrations.
func OpenStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	s := NewSQLiteStore(logger)
	if err := s.Open(path); err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened state store", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReport stores r, replacing any report with the same id.
func (s *SQLiteStore) SaveReport(ctx context.Context, r *report.Report) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO reports (id, source, row_count, column_count, missing_cells, created_at, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Source, r.Rows, r.Columns, r.MissingCells, r.CreatedAt.UTC().UnixNano(), string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Debug("saved report", "id", r.ID, "source", r.Source)
	return nil
}

// GetReport returns the report with the given id or unique id prefix.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*report.Report, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	var body string
	err = s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, fullID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var r report.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", fullID, err)
	}
	return &r, nil
}

// resolveID expands an id prefix to a full id.
func (s *SQLiteStore) resolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM reports WHERE substr(id, 1, length(?)) = ? ORDER BY id LIMIT 5`,
		prefix, prefix,
	)
	if err != nil {
		return "", fmt.Errorf("failed to look up report: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan report id: %w", err)
		}
		if id == prefix {
			return id, nil
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating report ids: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousIDError{Prefix: prefix, Matches: matches}
	}
}

// ListReports returns the most recent reports first. A limit of zero or
// less returns all reports.
func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]Summary, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, row_count, column_count, missing_cells, created_at
		 FROM reports ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var created int64
		if err := rows.Scan(&sum.ID, &sum.Source, &sum.Rows, &sum.Columns, &sum.MissingCells, &created); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		sum.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return out, nil
}

// DeleteReport removes the report with the given id or unique id prefix.
func (s *SQLiteStore) DeleteReport(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, fullID); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
