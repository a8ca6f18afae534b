// Package app contains the top-level orchestration for the send and server
// commands.
package app

import (
	"context"
	"io"

	"github.com/1ureka/udputil/internal/monitor"
	"github.com/1ureka/udputil/internal/transport"
	"github.com/1ureka/udputil/internal/util"
)

// ServerOptions configures a listener run.
type ServerOptions struct {
	Port      int
	Monitor   string // WebSocket monitor listen address; empty disables it
	DumpWidth int    // 0 = terminal width
	Out       io.Writer
}

// RunServer orchestrates the full listener lifecycle:
//  1. Start the optional WebSocket monitor
//  2. Bind the UDP port
//  3. Install the signal watcher on the shared shutdown state
//  4. Receive until a quit datagram, a signal or ctx cancellation
//
// A bind failure is returned as *transport.BindError; a failed wait as
// *transport.PollError after the loop has logged it.
func RunServer(ctx context.Context, opts ServerOptions) error {
	var reporter transport.Reporter = NewConsole(opts.Out, opts.DumpWidth)

	// ── 1. Monitor ──────────────────────────────────────────────────────
	if opts.Monitor != "" {
		mon := monitor.NewServer()
		addr, err := mon.Start(opts.Monitor)
		if err != nil {
			return err
		}
		defer mon.Close()

		util.LogInfo("monitor streaming to ws://%s/ws (session %s)", addr, mon.Session())
		reporter = Reporters{reporter, mon}
	}

	// ── 2. Bind ─────────────────────────────────────────────────────────
	shutdown := transport.NewShutdown()
	l, err := transport.Listen(ctx, opts.Port, shutdown, reporter)
	if err != nil {
		return err
	}

	// ── 3. Signals ──────────────────────────────────────────────────────
	stop := WatchSignals(shutdown)
	defer stop()

	// ── 4. Receive ──────────────────────────────────────────────────────
	util.LogInfo("Starting Datagram listener on port %d.", opts.Port)
	return l.Run(ctx)
}
