package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		source    SourceConfig
		errSubstr string
	}{
		{"empty type", SourceConfig{}, "source type is required"},
		{"duckdb", SourceConfig{Type: "duckdb"}, ""},
		{"duckdb uppercase", SourceConfig{Type: "DuckDB"}, ""},
		{"postgres", SourceConfig{Type: "postgres", Database: "analytics"}, ""},
		{"postgres without database", SourceConfig{Type: "postgres"}, "source.database"},
		{"unknown", SourceConfig{Type: "mysql"}, "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestApplySourceDefaults(t *testing.T) {
	s := &SourceConfig{}
	ApplySourceDefaults(s)
	assert.Equal(t, "duckdb", s.Type)
	assert.Equal(t, "main", s.Schema)

	pg := &SourceConfig{Type: "postgres"}
	ApplySourceDefaults(pg)
	assert.Equal(t, "public", pg.Schema)
	assert.Equal(t, 5432, pg.Port)

	ApplySourceDefaults(nil)
}

func TestAdapterConfig(t *testing.T) {
	s := SourceConfig{Type: "DuckDB", Database: "warehouse.duckdb"}
	cfg := s.AdapterConfig()
	assert.Equal(t, "duckdb", cfg.Type)
	assert.Equal(t, "warehouse.duckdb", cfg.Path)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileNameAlt), []byte("workers: 2\n"), 0o600))

	assert.Equal(t, filepath.Join(root, ConfigFileNameAlt), FindConfigFile(root))
	assert.Equal(t, root, FindProjectRoot(deep, 10))
	assert.Equal(t, "", FindProjectRoot(deep, 1))
}
