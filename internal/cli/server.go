package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/1ureka/udputil/internal/app"
	"github.com/1ureka/udputil/internal/config"
	"github.com/1ureka/udputil/internal/transport"
	"github.com/1ureka/udputil/internal/util"
)

func newServerCmd(g *globals) *cobra.Command {
	var monitorAddr string
	cmd := &cobra.Command{
		Use:     "server <port>",
		Aliases: []string{"listen"},
		Short:   "Print every datagram received on port until a quit datagram arrives",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := config.ParsePort(args[0])
			if err != nil {
				return err
			}

			monitor := g.cfg.Monitor
			if cmd.Flags().Changed("monitor") {
				monitor = monitorAddr
			}

			util.LogDebug("mode %s, port %d", config.ModeServer, port)
			err = app.RunServer(cmd.Context(), app.ServerOptions{
				Port:      port,
				Monitor:   monitor,
				DumpWidth: g.cfg.DumpWidth,
				Out:       cmd.OutOrStdout(),
			})

			// The loop has already reported a failed wait.
			var pollErr *transport.PollError
			if errors.As(err, &pollErr) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&monitorAddr, "monitor", "", "stream reports to WebSocket subscribers on this address, e.g. :8080")
	return cmd
}
