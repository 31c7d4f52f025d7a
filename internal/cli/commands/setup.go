package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/walkabout-eda/walkabout/internal/adapter"
	"github.com/walkabout-eda/walkabout/internal/cli/config"
	"github.com/walkabout-eda/walkabout/internal/cli/output"
	"github.com/walkabout-eda/walkabout/internal/dataset"
	"github.com/walkabout-eda/walkabout/internal/report"
	"github.com/walkabout-eda/walkabout/internal/state"
	"github.com/walkabout-eda/walkabout/internal/support"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config loaded by the
// root command. When a command runs on its own, as in tests, the config is
// loaded from the working directory and the command's flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfig("", cmd.Flags())
		if err != nil {
			return nil, err
		}
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// OpenAdapter connects to the configured source database.
// Returns the adapter and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenAdapter(ctx context.Context) (adapter.Adapter, func(), error) {
	acfg := c.Cfg.Source.AdapterConfig()
	a, err := adapter.NewAdapter(acfg, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := a.Connect(ctx, acfg); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", acfg.Type, err)
	}
	return a, func() { _ = a.Close() }, nil
}

// OpenStore opens the report history, creating its directory if needed.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	return state.OpenStore(c.Cfg.StatePath, c.Logger)
}

// cleanOptions controls how a loaded frame is cleaned.
type cleanOptions struct {
	noStrip        bool
	noPlaceholders bool
}

// loadFrame reads src through the configured adapter and cleans it:
// whitespace is stripped from text columns, placeholders become missing
// values, and text columns that are numeric after cleanup are converted.
func (c *CommandContext) loadFrame(ctx context.Context, src dataset.Source, opts cleanOptions) (*dataset.Frame, error) {
	a, cleanup, err := c.OpenAdapter(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := dataset.Load(ctx, a, src)
	if err != nil {
		return nil, err
	}
	if err := dataset.Describe(ctx, a, src, f); err != nil {
		c.Logger.Debug("column metadata unavailable", "source", src.String(), "error", err)
	}

	if c.Cfg.Strip && !opts.noStrip {
		f = support.StripColumns(f)
	}
	placeholders := c.Cfg.PlaceholderSet()
	if !opts.noPlaceholders && !placeholders.Empty() {
		f = support.PlaceholdToMissing(f, placeholders)
	}
	f = dataset.Reinfer(f)

	c.Logger.Debug("dataset loaded",
		"source", src.String(),
		"rows", f.Rows,
		"columns", len(f.Columns))
	return f, nil
}

// sourceFromArgs builds a source from the positional argument or --query.
func sourceFromArgs(args []string, query string, limit int) (dataset.Source, error) {
	var src dataset.Source
	if len(args) > 0 {
		src = dataset.ParseSource(args[0])
	}
	src.Query = query
	src.Limit = limit
	return src, src.Validate()
}

// renderReport writes rep in the renderer's effective mode.
func renderReport(r *output.Renderer, rep *report.Report) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rep)
	case output.ModeYAML:
		return r.YAML(rep)
	case output.ModeMarkdown:
		return report.WriteMarkdown(r.Writer(), rep)
	default:
		styles := r.Styles()
		r.Println(styles.Header1.Render("EDA Report: " + rep.Source))
		return report.WriteText(r.Writer(), rep, func(s string) string {
			return styles.Header2.Render(r.Title(s))
		})
	}
}

// ensureParentDir creates the directory of path if it does not exist.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
