// Package config provides the shared configuration types for walkabout.
// It is decoupled from CLI concerns so the server and library callers can
// describe a data source without importing cobra or koanf.
package config

import (
	"fmt"
	"strings"

	"github.com/walkabout-eda/walkabout/internal/adapter"
)

// SourceConfig describes the database a dataset is read through.
type SourceConfig struct {
	Type string `koanf:"type"` // duckdb, postgres

	// Database is a file path for DuckDB or a database name for Postgres.
	Database string `koanf:"database"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// Validate checks the source against the adapter registry.
func (s *SourceConfig) Validate() error {
	if s.Type == "" {
		return fmt.Errorf("source type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(s.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      s.Type,
			Available: adapter.ListAdapters(),
		}
	}
	if strings.EqualFold(s.Type, "postgres") && s.Database == "" {
		return fmt.Errorf("source.database is required for postgres")
	}
	return nil
}

// AdapterConfig converts the source to an adapter configuration.
func (s *SourceConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     strings.ToLower(s.Type),
		Path:     s.Database,
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		Username: s.User,
		Password: s.Password,
		Schema:   s.Schema,
		Options:  s.Options,
	}
}
