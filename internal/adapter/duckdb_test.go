package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walkabout-eda/walkabout/internal/testutil"
)

func connectDuckDB(t *testing.T) *DuckDBAdapter {
	t.Helper()
	a := NewDuckDBAdapter(testutil.NewTestLogger(t))
	require.NoError(t, a.Connect(context.Background(), Config{Path: ":memory:"}))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestDuckDBAdapter_ConnectFileBased(t *testing.T) {
	ctx := context.Background()
	a := NewDuckDBAdapter(nil)

	dbPath := filepath.Join(t.TempDir(), "test.duckdb")
	require.NoError(t, a.Connect(ctx, Config{Path: dbPath}))
	defer a.Close()

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
}

func TestDuckDBAdapter_ExecQuery(t *testing.T) {
	ctx := context.Background()
	a := connectDuckDB(t)

	require.NoError(t, a.Exec(ctx, `CREATE TABLE users (id INTEGER, name VARCHAR)`))
	require.NoError(t, a.Exec(ctx, `INSERT INTO users VALUES (1, 'alice'), (2, 'bob')`))

	rows, err := a.Query(ctx, `SELECT id, name FROM users ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var id int
		var name string
		require.NoError(t, rows.Scan(&id, &name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"alice", "bob"}, names)
}

func TestDuckDBAdapter_GetTableMetadata(t *testing.T) {
	ctx := context.Background()
	a := connectDuckDB(t)

	require.NoError(t, a.Exec(ctx, `CREATE TABLE products (product_id INTEGER NOT NULL, name VARCHAR, price DOUBLE)`))
	require.NoError(t, a.Exec(ctx, `INSERT INTO products VALUES (1, 'Widget', 9.99), (2, 'Gadget', 19.99)`))

	md, err := a.GetTableMetadata(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, "main", md.Schema)
	assert.Equal(t, "products", md.Name)
	assert.Equal(t, int64(2), md.RowCount)
	require.Len(t, md.Columns, 3)
	assert.Equal(t, "product_id", md.Columns[0].Name)
	assert.False(t, md.Columns[0].Nullable)
	assert.Equal(t, "DOUBLE", md.Columns[2].Type)

	_, err = a.GetTableMetadata(ctx, "missing_table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDuckDBAdapter_LoadFile(t *testing.T) {
	ctx := context.Background()
	a := connectDuckDB(t)

	path := testutil.WriteFixture(t, "people.csv", testutil.PeopleCSV)
	require.NoError(t, a.LoadFile(ctx, "people", path))

	md, err := a.GetTableMetadata(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, int64(6), md.RowCount)
	assert.Len(t, md.Columns, 5)

	// Loading again replaces the table.
	require.NoError(t, a.LoadFile(ctx, "people", path))
}

func TestDuckDBAdapter_LoadFileUnsupported(t *testing.T) {
	a := connectDuckDB(t)

	path := testutil.WriteFixture(t, "notes.txt", "hello")
	err := a.LoadFile(context.Background(), "notes", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
