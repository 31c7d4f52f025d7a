package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/walkabout-eda/walkabout/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve report history over HTTP",
		Long: `Start a read-only JSON API over saved reports.

Endpoints:
  GET /api/health
  GET /api/reports?limit=N
  GET /api/reports/{id}
  GET /api/reports/{id}/markdown
  GET /api/events (server-sent events when history changes)`,
		Example: `  walkabout serve
  walkabout serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cmdCtx.Cfg.Serve.Addr = addr
			}

			store, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmdCtx.Renderer.Muted("Serving reports on http://" + cmdCtx.Cfg.Serve.Addr)
			// The store runs in WAL mode, so commits land in the -wal file.
			srv := server.New(server.Config{
				Addr:      cmdCtx.Cfg.Serve.Addr,
				Store:     store,
				Logger:    cmdCtx.Logger,
				WatchPath: cmdCtx.Cfg.StatePath + "-wal",
			})
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from serve.addr)")
	return cmd
}
