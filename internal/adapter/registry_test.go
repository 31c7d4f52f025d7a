package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfRegistration(t *testing.T) {
	assert.True(t, IsRegistered("duckdb"), "duckdb adapter should be auto-registered")
	assert.True(t, IsRegistered("postgres"), "postgres adapter should be auto-registered")
	assert.False(t, IsRegistered("unknown_db"))
}

func TestListAdapters(t *testing.T) {
	adapters := ListAdapters()
	assert.Contains(t, adapters, "duckdb")
	assert.Contains(t, adapters, "postgres")
	assert.IsIncreasing(t, adapters)
}

func TestNewAdapter(t *testing.T) {
	a, err := NewAdapter(Config{Type: "duckdb"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", a.DialectName())

	_, err = NewAdapter(Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not specified")
}

func TestNewAdapter_Unknown(t *testing.T) {
	_, err := NewAdapter(Config{Type: "oracle"}, nil)
	require.Error(t, err)

	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
	assert.Contains(t, unknown.Available, "duckdb")
	assert.Contains(t, err.Error(), "source.type")
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"my table"`, QuoteIdent("my table"))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
	assert.Equal(t, `'it''s'`, QuoteLiteral("it's"))

	schema, name := ParseQualifiedName("sales.orders", "main")
	assert.Equal(t, "sales", schema)
	assert.Equal(t, "orders", name)

	schema, name = ParseQualifiedName("orders", "main")
	assert.Equal(t, "main", schema)
	assert.Equal(t, "orders", name)
}
