package commands

import (
	"github.com/spf13/cobra"

	"github.com/walkabout-eda/walkabout/internal/report"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a saved report",
		Long: `Render a report from history. The id may be any unambiguous prefix
of a report id as listed by the history command.`,
		Example: `  walkabout show 3f2a91c0
  walkabout show 3f2a --output json
  walkabout show 3f2a --export report.md`,
		Args: cobra.ExactArgs(1),
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

			if err := renderReport(cmdCtx.Renderer, rep); err != nil {
				return err
			}
			if export != "" {
				return report.Export(export, rep)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "Also write the report to a file (.json, .yaml, .md)")
	return cmd
}
