package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// Section titles shared by the renderers.
const (
	TitleOverview = "overview"
	TitleNumeric  = "numeric columns"
	TitleText     = "text columns"
	TitleOutliers = "outliers"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func overviewTable(r *Report) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Source", r.Source},
		{"Report", r.ID},
		{"Created", r.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		{"Rows", r.Rows},
		{"Columns", r.Columns},
		{"Numeric columns", len(r.Numeric)},
		{"Text columns", len(r.Text)},
		{"Duplicate rows", r.DuplicateRows},
		{"Missing cells", fmt.Sprintf("%d (%s%%)", r.MissingCells, r.MissingPercent)},
	})
	return t
}

func numericTable(r *Report) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{
		"Column", "Type", "Count", "Missing", "Unique", "Mean", "Std", "Min",
		"Q1", "Median", "Q3", "Max", "Trimean", "Var/Mean", "Outliers",
	})
	for _, s := range r.Numeric {
		t.AppendRow(table.Row{
			s.Name, s.Describe(), s.Count, s.Missing, s.Unique, s.Mean, s.Std, s.Min,
			s.Q1, s.Median, s.Q3, s.Max, s.Trimean, s.VarianceCoefficient, s.Outliers,
		})
	}
	alignNumbers(t, 3, 15)
	return t
}

func textTable(r *Report) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Type", "Count", "Missing", "Unique", "Top", "Freq"})
	for _, s := range r.Text {
		t.AppendRow(table.Row{s.Name, s.Describe(), s.Count, s.Missing, s.Unique, s.Top, s.TopFreq})
	}
	return t
}

// OutlierTable lists flagged values, one row each.
func OutlierTable(res *OutlierResult) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Row", res.Column})
	for _, o := range res.Outliers {
		t.AppendRow(table.Row{o.Row, strconv.FormatFloat(o.Value, 'g', -1, 64)})
	}
	return t
}

// alignNumbers right-aligns the 1-based columns first through last.
func alignNumbers(t table.Writer, first, last int) {
	configs := make([]table.ColumnConfig, 0, last-first+1)
	for i := first; i <= last; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
}

// WriteText renders r as terminal tables. heading formats section titles;
// nil leaves them unstyled.
func WriteText(w io.Writer, r *Report, heading func(string) string) error {
	if heading == nil {
		heading = func(s string) string { return s }
	}

	sections := []struct {
		title string
		table table.Writer
		empty bool
	}{
		{TitleOverview, overviewTable(r), false},
		{TitleNumeric, numericTable(r), len(r.Numeric) == 0},
		{TitleText, textTable(r), len(r.Text) == 0},
	}

	for i, sec := range sections {
		if sec.empty {
			continue
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, heading(sec.title)); err != nil {
			return err
		}
		sec.table.SetStyle(table.StyleLight)
		if _, err := fmt.Fprintln(w, sec.table.Render()); err != nil {
			return err
		}
	}
	return nil
}

// WriteMarkdown renders r as a markdown document.
func WriteMarkdown(w io.Writer, r *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# EDA report: %s\n\n", r.Source)

	fmt.Fprintf(&b, "## %s\n\n", sentence(TitleOverview))
	b.WriteString(overviewTable(r).RenderMarkdown())
	b.WriteString("\n")

	if len(r.Numeric) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", sentence(TitleNumeric))
		b.WriteString(numericTable(r).RenderMarkdown())
		b.WriteString("\n")
	}
	if len(r.Text) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", sentence(TitleText))
		b.WriteString(textTable(r).RenderMarkdown())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Export writes r to path in the format implied by its extension.
func Export(path string, r *Report) error {
	var write func(io.Writer, *Report) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = func(w io.Writer, r *Report) error { return WriteJSON(w, r) }
	case ".yaml", ".yml":
		write = func(w io.Writer, r *Report) error { return WriteYAML(w, r) }
	case ".md", ".markdown":
		write = WriteMarkdown
	default:
		return fmt.Errorf("unsupported export format %q\nHint: use .json, .yaml or .md", filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // user-chosen output path
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
