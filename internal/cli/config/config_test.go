package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walkabout-eda/walkabout/internal/support"
)

// newFlags mirrors the persistent flags registered by the root command.
func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("state", "", "")
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.Int("workers", 0, "")
	flags.String("source-type", "", "")
	flags.String("database", "", "")
	return flags
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "walkabout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.True(t, cfg.Strip)
	assert.True(t, cfg.UsePlaceholders)
	assert.True(t, cfg.Outliers.Inclusive)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "duckdb", cfg.Source.Type)
	assert.Equal(t, "main", cfg.Source.Schema)
	assert.True(t, filepath.IsAbs(cfg.StatePath))
	assert.Equal(t, ".walkabout", filepath.Base(filepath.Dir(cfg.StatePath)))
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("WALKABOUT_TEST_PG_PASSWORD", "s3cret")

	path := writeConfig(t, dir, `
output: json
workers: 3
strip: false
placeholders: ["N/A", "-1"]
outliers:
  inclusive: false
source:
  type: postgres
  database: analytics
  host: db.internal
  user: walker
  password: ${WALKABOUT_TEST_PG_PASSWORD}
serve:
  addr: ":9000"
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.Strip)
	assert.False(t, cfg.Outliers.Inclusive)
	assert.Equal(t, []string{"N/A", "-1"}, cfg.Placeholders)
	assert.Equal(t, "postgres", cfg.Source.Type)
	assert.Equal(t, "analytics", cfg.Source.Database)
	assert.Equal(t, 5432, cfg.Source.Port)
	assert.Equal(t, "public", cfg.Source.Schema)
	assert.Equal(t, "s3cret", cfg.Source.Password)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
}

func TestLoadConfig_FileFoundUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "workers: 2\n")
	sub := filepath.Join(root, "data", "raw")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, DefaultStateFile), cfg.StatePath)
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeConfig(t, dir, "output: json\nworkers: 2\n")

	t.Setenv("WALKABOUT_OUTPUT", "yaml")
	t.Setenv("WALKABOUT_WORKERS", "4")
	t.Setenv("WALKABOUT_OUTLIERS__INCLUSIVE", "false")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--workers", "8"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.OutputFormat, "env overrides file")
	assert.Equal(t, 8, cfg.Workers, "flag overrides env")
	assert.False(t, cfg.Outliers.Inclusive, "nested env key")
}

func TestLoadConfig_PlaceholdersFromEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("WALKABOUT_PLACEHOLDERS", "N/A,-99")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"N/A", "-99"}, cfg.Placeholders)

	p := cfg.PlaceholderSet()
	assert.Equal(t, []float64{-99}, p.Numbers)
	assert.Equal(t, []string{"N/A", "-99"}, p.Strings)
}

func TestLoadConfig_FlagPaths(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--state", "history.db", "--database", ":memory:", "--source-type", "duckdb"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.StatePath)
	assert.Equal(t, ":memory:", cfg.Source.Database)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad output", "output: html\n", "invalid output format"},
		{"negative workers", "workers: -1\n", "workers must not be negative"},
		{"unknown source", "source:\n  type: oracle\n", "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			dir := t.TempDir()
			t.Chdir(dir)
			path := writeConfig(t, dir, tt.content)

			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
}

func TestPlaceholderSet(t *testing.T) {
	cfg := &Config{UsePlaceholders: true}
	assert.Equal(t, support.DefaultPlaceholders(), cfg.PlaceholderSet())

	cfg.UsePlaceholders = false
	assert.True(t, cfg.PlaceholderSet().Empty())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("WALKABOUT_TEST_USER", "analyst")

	assert.Equal(t, "analyst", expandEnvVars("${WALKABOUT_TEST_USER}"))
	assert.Equal(t, "user=analyst;", expandEnvVars("user=${WALKABOUT_TEST_USER};"))
	assert.Equal(t, "${WALKABOUT_TEST_UNSET}", expandEnvVars("${WALKABOUT_TEST_UNSET}"))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "state_path", envKey("WALKABOUT_STATE_PATH"))
	assert.Equal(t, "source.type", envKey("WALKABOUT_SOURCE__TYPE"))
	assert.Equal(t, "serve.addr", envKey("WALKABOUT_SERVE__ADDR"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
}

func TestConfigContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	cfg := &Config{Workers: 2}
	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
