package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1ureka/udputil/internal/app"
	"github.com/1ureka/udputil/internal/config"
	"github.com/1ureka/udputil/internal/transport"
	"github.com/1ureka/udputil/internal/util"
)

func newSendCmd(g *globals) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "send [--raw] <host> <port> <payload> [counter]",
		Short: "Send one datagram to a host",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, g, config.ModeSend, args[0], args[1], args[2], optional(args, 3), raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "send the payload bytes verbatim, without the datagram layout")
	literalArgs(cmd)
	return cmd
}

func newBroadcastCmd(g *globals) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "broadcast [--raw] <port> <payload> [counter]",
		Short: "Broadcast one datagram to 255.255.255.255",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, g, config.ModeBroadcast, "", args[0], args[1], optional(args, 2), raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "send the payload bytes verbatim, without the datagram layout")
	literalArgs(cmd)
	return cmd
}

func newQuitCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quit <host> <port> [payload] [counter]",
		Short: "Send a datagram that stops the listener on host",
		Args:  cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, g, config.ModeQuit, args[0], args[1], optional(args, 2), optional(args, 3), false)
		},
	}
	literalArgs(cmd)
	return cmd
}

// literalArgs stops flag parsing at the first positional so payloads and
// negative counters starting with '-' are taken as-is. Flags must come
// before the host.
func literalArgs(cmd *cobra.Command) {
	cmd.Flags().SetInterspersed(false)
}

// runSend validates the positional arguments and transmits the datagram.
// A transmission failure is logged and is not an error of the command.
func runSend(cmd *cobra.Command, g *globals, mode config.Mode, host, portArg, payload, counterArg string, raw bool) error {
	port, err := config.ParsePort(portArg)
	if err != nil {
		return err
	}
	var counter int16
	if counterArg != "" {
		if counter, err = config.ParseCounter(counterArg); err != nil {
			return err
		}
	}

	sent, err := app.RunSend(cmd.Context(), app.SendOptions{
		Mode:    mode,
		Target:  host,
		Port:    port,
		Payload: payload,
		Counter: counter,
		Raw:     raw,
		Origin:  g.cfg.Origin,
	})
	if err != nil {
		var sendErr *transport.SendError
		if errors.As(err, &sendErr) {
			util.LogError("%v", sendErr)
			return nil
		}
		return err
	}

	util.LogDebug("%d bytes to %s", sent.Bytes, sent.To)
	if sent.Broadcast {
		fmt.Fprintln(cmd.OutOrStdout(), "Datagram broadcast successfully.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Datagram sent successfully.")
	}
	return nil
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
