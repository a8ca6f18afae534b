//go:build windows

package app

import (
	"os"
	"syscall"
)

// The runtime delivers console close, logoff and shutdown events as
// SIGTERM, and Ctrl+C / Ctrl+Break as os.Interrupt.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func signalNotice(sig os.Signal) string {
	if sig == syscall.SIGTERM {
		return "Closing application, shutting down Datagram listener..."
	}
	return "Shutting down Datagram listener..."
}
