package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/walkabout-eda/walkabout/internal/cli/output"
	"github.com/walkabout-eda/walkabout/internal/dataset"
	"github.com/walkabout-eda/walkabout/internal/report"
	"github.com/walkabout-eda/walkabout/internal/watcher"
)

// ProfileOptions holds options for the profile command.
type ProfileOptions struct {
	Query          string
	Limit          int
	Save           bool
	Export         string
	Watch          bool
	NoStrip        bool
	NoPlaceholders bool
}

// NewProfileCommand creates the profile command.
func NewProfileCommand() *cobra.Command {
	opts := &ProfileOptions{}

	cmd := &cobra.Command{
		Use:   "profile [file|table]",
		Short: "Build an EDA report for a dataset",
		Long: `Load a dataset, clean it and report per-column statistics.

A dataset is a data file (CSV, TSV, Parquet, JSON), a table in the
configured source database, or a query given with --query. Before
profiling, whitespace is stripped from text columns and placeholder
values such as -999 or "missing" are treated as missing.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # Profile a CSV file
  walkabout profile data/people.csv

  # Profile a Postgres table and keep the report
  walkabout profile sales.orders --source-type postgres --save

  # Profile a query and export the report
  walkabout profile --query "SELECT * FROM events WHERE day = today()" --export events.md

  # Re-profile whenever the file changes
  walkabout profile data/people.csv --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Profile the result of a SQL query")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Read at most this many rows (0 for all)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save the report to history")
	cmd.Flags().StringVar(&opts.Export, "export", "", "Also write the report to a file (.json, .yaml, .md)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when the file changes")
	cmd.Flags().BoolVar(&opts.NoStrip, "no-strip", false, "Keep leading and trailing whitespace")
	cmd.Flags().BoolVar(&opts.NoPlaceholders, "no-placeholders", false, "Keep placeholder values")

	return cmd
}

func runProfile(cmd *cobra.Command, args []string, opts *ProfileOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	src, err := sourceFromArgs(args, opts.Query, opts.Limit)
	if err != nil {
		return err
	}
	if opts.Watch && src.Path == "" {
		return fmt.Errorf("--watch needs a file source")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	profile := func(ctx context.Context) error {
		return profileOnce(ctx, cmdCtx, src, opts)
	}
	if err := profile(ctx); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdCtx.Renderer.Warning(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", src.Path))
	return watcher.Watch(ctx, src.Path, watcher.DefaultDebounce, cmdCtx.Logger, profile)
}

func profileOnce(ctx context.Context, cmdCtx *CommandContext, src dataset.Source, opts *ProfileOptions) error {
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	f, err := cmdCtx.loadFrame(ctx, src, cleanOptions{
		noStrip:        opts.NoStrip,
		noPlaceholders: opts.NoPlaceholders,
	})
	if err != nil {
		return err
	}

	rep, err := report.Build(ctx, f, report.Options{
		Source:            src.String(),
		Workers:           cfg.Workers,
		InclusiveOutliers: cfg.Outliers.Inclusive,
		Logger:            cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	if err := renderReport(r, rep); err != nil {
		return err
	}

	if opts.Save {
		store, err := cmdCtx.OpenStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.SaveReport(ctx, rep); err != nil {
			return err
		}
		cmdCtx.Logger.Info("report saved", "id", rep.ID, "state", cfg.StatePath)
		if r.EffectiveMode() == output.ModeText {
			r.Muted("Saved report " + rep.ID)
		}
	}

	if opts.Export != "" {
		if err := report.Export(opts.Export, rep); err != nil {
			return err
		}
		cmdCtx.Logger.Info("report exported", "path", opts.Export)
	}
	return nil
}
