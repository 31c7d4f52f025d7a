package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/walkabout-eda/walkabout/internal/cli/output"
	"github.com/walkabout-eda/walkabout/internal/report"
	"github.com/walkabout-eda/walkabout/internal/support"
)

// OutliersOptions holds options for the outliers command.
type OutliersOptions struct {
	Column         string
	Exclusive      bool
	Query          string
	Limit          int
	NoStrip        bool
	NoPlaceholders bool
}

// NewOutliersCommand creates the outliers command.
func NewOutliersCommand() *cobra.Command {
	opts := &OutliersOptions{}

	cmd := &cobra.Command{
		Use:   "outliers [file|table] --column NAME",
		Short: "List IQR outliers of a numeric column",
		Long: `List the values of a numeric column that lie outside the IQR fences
q1 - 1.5*iqr and q3 + 1.5*iqr.

By default a value lying exactly on a fence is kept. Use --exclusive to
flag fence values as outliers too, or set outliers.inclusive in the config
file. Missing values are never outliers.`,
		Example: `  # Outliers of the income column
  walkabout outliers data/people.csv --column income

  # Treat values on the fences as outliers
  walkabout outliers data/people.csv -c income --exclusive --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutliers(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Column, "column", "c", "", "Numeric column to check (required)")
	cmd.Flags().BoolVar(&opts.Exclusive, "exclusive", false, "Flag values lying exactly on a fence")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Read the result of a SQL query")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Read at most this many rows (0 for all)")
	cmd.Flags().BoolVar(&opts.NoStrip, "no-strip", false, "Keep leading and trailing whitespace")
	cmd.Flags().BoolVar(&opts.NoPlaceholders, "no-placeholders", false, "Keep placeholder values")
	_ = cmd.MarkFlagRequired("column")

	return cmd
}

func runOutliers(cmd *cobra.Command, args []string, opts *OutliersOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	src, err := sourceFromArgs(args, opts.Query, opts.Limit)
	if err != nil {
		return err
	}

	f, err := cmdCtx.loadFrame(cmd.Context(), src, cleanOptions{
		noStrip:        opts.NoStrip,
		noPlaceholders: opts.NoPlaceholders,
	})
	if err != nil {
		return err
	}

	inclusive := cmdCtx.Cfg.Outliers.Inclusive && !opts.Exclusive
	res, err := report.Outliers(f, opts.Column, inclusive)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(res)
	case output.ModeYAML:
		return r.YAML(res)
	case output.ModeMarkdown:
		return outliersMarkdown(r, res)
	default:
		return outliersText(r, res)
	}
}

func fenceMode(inclusive bool) string {
	if inclusive {
		return "inclusive"
	}
	return "exclusive"
}

func outliersText(r *output.Renderer, res *report.OutlierResult) error {
	styles := r.Styles()
	r.Header(1, report.TitleOutliers)
	r.Printf("%s %s\n", styles.Muted.Render("column:"), styles.Bold.Render(res.Column))
	r.Printf("%s %s .. %s (%s)\n",
		styles.Muted.Render("fences:"), res.Lower, res.Upper, fenceMode(res.Inclusive))

	if len(res.Outliers) == 0 {
		r.Success("No outliers")
		return nil
	}

	t := report.OutlierTable(res)
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d outliers", len(res.Outliers))))
	return nil
}

func outliersMarkdown(r *output.Renderer, res *report.OutlierResult) error {
	r.Println(output.FormatHeader(1, "Outliers: "+res.Column))
	r.Println("")
	r.Println(output.FormatKeyValue("Lower fence", res.Lower.String()))
	r.Println(output.FormatKeyValue("Upper fence", res.Upper.String()))
	r.Println(output.FormatKeyValue("Fences", fenceMode(res.Inclusive)))
	r.Println(output.FormatKeyValue("Outliers", fmt.Sprintf("%d", len(res.Outliers))))

	if len(res.Outliers) > 0 {
		r.Println(output.FormatKeyValue("Rows", support.ListToString([]any{res.Rows()}, "")))
		r.Println("")
		r.Println(report.OutlierTable(res).RenderMarkdown())
	}
	return nil
}
