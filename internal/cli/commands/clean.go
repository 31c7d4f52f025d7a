package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/walkabout-eda/walkabout/internal/cli/output"
	"github.com/walkabout-eda/walkabout/internal/dataset"
)

// CleanOptions holds options for the clean command.
type CleanOptions struct {
	Out            string
	Query          string
	Limit          int
	NoStrip        bool
	NoPlaceholders bool
}

// CleanOutput is the JSON form of a clean run.
type CleanOutput struct {
	Source       string `json:"source" yaml:"source"`
	Out          string `json:"out" yaml:"out"`
	Rows         int    `json:"rows" yaml:"rows"`
	Columns      int    `json:"columns" yaml:"columns"`
	MissingCells int    `json:"missing_cells" yaml:"missing_cells"`
}

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	opts := &CleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean [file|table] --out FILE",
		Short: "Write a cleaned copy of a dataset as CSV",
		Long: `Strip whitespace from text columns, replace placeholder values with
missing values and write the result as CSV. Missing values are written as
empty fields. Use --out - to write to standard output.`,
		Example: `  # Clean a CSV file
  walkabout clean data/people.csv --out data/people.clean.csv

  # Clean a table and print it
  walkabout clean staging.customers --out -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "Output CSV file, or - for stdout (required)")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Read the result of a SQL query")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Read at most this many rows (0 for all)")
	cmd.Flags().BoolVar(&opts.NoStrip, "no-strip", false, "Keep leading and trailing whitespace")
	cmd.Flags().BoolVar(&opts.NoPlaceholders, "no-placeholders", false, "Keep placeholder values")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runClean(cmd *cobra.Command, args []string, opts *CleanOptions) error {
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

	if opts.Out == "-" {
		return dataset.WriteCSV(cmd.OutOrStdout(), f)
	}
	if err := writeCSVFile(opts.Out, f); err != nil {
		return err
	}

	result := CleanOutput{
		Source:       src.String(),
		Out:          opts.Out,
		Rows:         f.Rows,
		Columns:      len(f.Columns),
		MissingCells: f.MissingCells(),
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	case output.ModeYAML:
		return r.YAML(result)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Clean"))
		r.Println("")
		r.Println(output.FormatKeyValue("Source", result.Source))
		r.Println(output.FormatKeyValue("Output", result.Out))
		r.Println(output.FormatKeyValue("Rows", fmt.Sprintf("%d", result.Rows)))
		r.Println(output.FormatKeyValue("Missing cells", fmt.Sprintf("%d", result.MissingCells)))
	default:
		r.Success(fmt.Sprintf("Wrote %d rows to %s", result.Rows, result.Out))
		r.Muted(fmt.Sprintf("%d missing cells after cleaning", result.MissingCells))
	}
	return nil
}

func writeCSVFile(path string, f *dataset.Frame) (err error) {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	file, err := os.Create(path) //nolint:gosec // user-chosen output path
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := dataset.WriteCSV(file, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
