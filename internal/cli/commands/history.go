package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/walkabout-eda/walkabout/internal/cli/output"
	"github.com/walkabout-eda/walkabout/internal/state"
)

// shortIDLen is how many characters of a report id are shown in listings.
const shortIDLen = 8

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved reports",
		Long: `List reports saved with profile --save, newest first.

Any unambiguous prefix of a report id can be passed to show or
history delete.`,
		Example: `  # Last 20 reports
  walkabout history

  # All reports as JSON
  walkabout history --limit 0 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of reports to list (0 for all)")
	cmd.AddCommand(newHistoryDeleteCommand())

	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reports, err := store.ListReports(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if reports == nil {
		reports = []state.Summary{}
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(reports)
	case output.ModeYAML:
		return r.YAML(reports)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Report History"))
		r.Println("")
		if len(reports) == 0 {
			r.Println("No saved reports.")
			return nil
		}
		r.Println(historyTable(reports).RenderMarkdown())
	default:
		r.Header(1, "report history")
		if len(reports) == 0 {
			r.Muted("No saved reports. Use profile --save to keep one.")
			return nil
		}
		t := historyTable(reports)
		t.SetStyle(table.StyleLight)
		r.Println(t.Render())
		r.Muted(fmt.Sprintf("Total: %d reports", len(reports)))
	}
	return nil
}

func historyTable(reports []state.Summary) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Created", "Source", "Rows", "Columns", "Missing"})
	for _, s := range reports {
		t.AppendRow(table.Row{
			shortID(s.ID),
			s.CreatedAt.Local().Format(time.DateTime),
			s.Source,
			s.Rows,
			s.Columns,
			s.MissingCells,
		})
	}
	return t
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved report",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			store, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rep, err := store.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteReport(cmd.Context(), rep.ID); err != nil {
				return err
			}

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(map[string]string{"deleted": rep.ID})
			case output.ModeYAML:
				return r.YAML(map[string]string{"deleted": rep.ID})
			default:
				r.Success("Deleted report " + rep.ID)
			}
			return nil
		},
	}
}
