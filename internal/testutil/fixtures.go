package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// PeopleCSV is a small dataset with padded text, placeholder values and one
// obvious outlier in the income column.
const PeopleCSV = `id,name,city,age,income
1, Alice ,Perth,34,52000
2,Bob,  Darwin,-999,48000
3,Carol,missing,29,51000
4,Dave,Perth,41,49500
5,Erin,Hobart,38,250000
6,Frank,?,-1,50500
`

// WriteFixture writes content to name inside a fresh temp directory and
// returns the full path.
func WriteFixture(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
