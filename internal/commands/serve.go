package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsight/internal/importer"
	"github.com/cleared-dev/finsight/internal/server"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				e.cfg.Server.Addr = addr
			}

			registry, err := importer.DefaultRegistry(e.cfg.Import.Encoding)
			if err != nil {
				return fmt.Errorf("creating importers: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(e.cfg, registry, e.log).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")

	return cmd
}
