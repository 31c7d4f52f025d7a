package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walkabout-eda/walkabout/internal/cli/config"
	"github.com/walkabout-eda/walkabout/internal/report"
	"github.com/walkabout-eda/walkabout/internal/testutil"
)

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	cfgFile = ""

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"profile", "outliers", "clean", "history", "show", "serve", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	for _, flag := range []string{"config", "state", "output", "verbose", "workers", "source-type", "database"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_ProfileWithFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	data := testutil.WriteFixture(t, "people.csv", testutil.PeopleCSV)

	out, stderr, err := runRoot(t, "profile", data, "-o", "json", "--workers", "2", "--state", filepath.Join(dir, "s.db"), "--save", "-v")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 6, rep.Rows)
	assert.FileExists(t, filepath.Join(dir, "s.db"))
	assert.Contains(t, stderr, "report saved", "verbose enables debug and info logs")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: yaml\n"), 0o600))
	data := testutil.WriteFixture(t, "people.csv", testutil.PeopleCSV)

	out, _, err := runRoot(t, "--config", cfgPath, "profile", data)
	require.NoError(t, err)
	assert.Contains(t, out, "rows: 6")
}

func TestRootCommand_InvalidOutput(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := runRoot(t, "history", "-o", "html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestCompletionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := runRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "walkabout")

	_, _, err = runRoot(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	out, _, err := runRoot(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "walkabout "+Version)
}
