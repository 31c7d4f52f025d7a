package config

import "strings"

// Default configuration values.
const (
	DefaultSourceType = "duckdb"
	DefaultStateFile  = ".walkabout/state.db"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultServeAddr  = "127.0.0.1:8787"
)

// DefaultSchemaForType returns the default schema for a source type.
func DefaultSchemaForType(sourceType string) string {
	switch strings.ToLower(sourceType) {
	case "postgres":
		return "public"
	default:
		return "main"
	}
}

// ApplySourceDefaults fills unset source fields based on the source type.
func ApplySourceDefaults(s *SourceConfig) {
	if s == nil {
		return
	}
	if s.Type == "" {
		s.Type = DefaultSourceType
	}
	if s.Schema == "" {
		s.Schema = DefaultSchemaForType(s.Type)
	}
	if strings.EqualFold(s.Type, "postgres") && s.Port == 0 {
		s.Port = 5432
	}
}
