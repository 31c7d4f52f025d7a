package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto when piped", ModeAuto, false, ModeMarkdown},
		{"empty is auto", "", false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text when piped", ModeText, false, ModeText},
		{"case insensitive", "YAML", false, ModeYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Messages(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, ModeText, false)

	r.Header(2, "numeric columns")
	r.Success("saved")
	r.Muted("3 rows")
	r.Warning("no numeric columns")
	r.Error("failed")

	assert.Contains(t, out.String(), "Numeric Columns")
	assert.Contains(t, out.String(), "✓ saved")
	assert.Contains(t, out.String(), "3 rows")
	assert.Contains(t, errOut.String(), "! no numeric columns")
	assert.Contains(t, errOut.String(), "✗ failed")
	assert.NotContains(t, out.String(), "\x1b[", "no colour when not a terminal")
}

func TestRenderer_JSONAndYAML(t *testing.T) {
	v := map[string]any{"rows": 6, "source": "people.csv"}

	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, ModeJSON, false)
	require.NoError(t, r.JSON(v))
	assert.Equal(t, "{\n  \"rows\": 6,\n  \"source\": \"people.csv\"\n}\n", out.String())

	out.Reset()
	require.NoError(t, r.YAML(v))
	assert.Equal(t, "rows: 6\nsource: people.csv\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Report", FormatHeader(1, "Report"))
	assert.Equal(t, "### Column", FormatHeader(3, "Column"))
	assert.Equal(t, "# Report", FormatHeader(0, "Report"))
	assert.Equal(t, "- **Rows**: 6", FormatKeyValue("Rows", "6"))
}

func TestTitle(t *testing.T) {
	r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, ModeText, false)
	assert.Equal(t, "Text Columns", r.Title("text columns"))
	assert.True(t, strings.HasPrefix(r.Title("iqr outliers"), "Iqr"))
}
