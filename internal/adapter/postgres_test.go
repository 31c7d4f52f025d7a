package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected string
	}{
		{
			name: "basic connection",
			config: Config{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode and extra options",
			config: Config{
				Host:     "prod.example.com",
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require", "connect_timeout": "5"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin connect_timeout=5",
		},
		{
			name: "quoted values",
			config: Config{
				Host:     "db",
				Username: "o'brien",
				Password: `p@ss word\1`,
				Options:  map[string]string{"application_name": "walk about"},
			},
			expected: `host=db port=5432 dbname='' sslmode=disable user='o\'brien' password='p@ss word\\1' application_name='walk about'`,
		},
		{
			name:     "defaults",
			config:   Config{Database: "mydb"},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestPostgresAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, a *PostgresAdapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, a *PostgresAdapter) error {
				return a.Exec(ctx, "SELECT 1")
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, a *PostgresAdapter) error {
				_, err := a.Query(ctx, "SELECT 1")
				return err
			},
		},
		{
			name: "get metadata without connect",
			operation: func(ctx context.Context, a *PostgresAdapter) error {
				_, err := a.GetTableMetadata(ctx, "users")
				return err
			},
		},
		{
			name: "load file without connect",
			operation: func(ctx context.Context, a *PostgresAdapter) error {
				return a.LoadFile(ctx, "test", "/tmp/test.csv")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), NewPostgresAdapter(nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not established")
		})
	}
}
