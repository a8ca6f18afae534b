// Package cli implements the udputil command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1ureka/udputil/internal/config"
	"github.com/1ureka/udputil/internal/util"
)

// globals holds the persistent flags and the configuration resolved from
// them before any subcommand runs.
type globals struct {
	cfgFile string
	debug   bool
	origin  string
	width   int

	cfg *config.Config
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "udputil",
		Short: "Send, broadcast and receive fixed-layout UDP datagrams",
		Long: `udputil exchanges small structured datagrams over UDP on IPv4.

A datagram carries the sender's host name, a payload of up to 512 bytes,
a signed 16-bit counter and a quit flag. "server" prints every datagram it
receives until it is sent a quit datagram or interrupted.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := g.cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Override config with flags
			flags := cmd.Flags()
			if flags.Changed("origin") {
				cfg.Origin = g.origin
			}
			if flags.Changed("width") {
				cfg.DumpWidth = g.width
			}
			if g.debug {
				cfg.Debug = true
			}
			if cfg.Debug {
				util.EnableDebug()
			}

			g.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Usage()
			return errors.New("missing command")
		},
	}

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is ~/.udputil/config.yaml)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&g.origin, "origin", "", "origin name sent in datagrams (default is the host name)")
	root.PersistentFlags().IntVar(&g.width, "width", 0, "line width of unknown-datagram dumps (default is the terminal width)")

	root.AddCommand(
		newSendCmd(g),
		newBroadcastCmd(g),
		newQuitCmd(g),
		newServerCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits with status 1 on any returned
// error.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
}
