//go:build unix

package app

import (
	"os"
	"syscall"
)

var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

func signalNotice(sig os.Signal) string {
	switch sig {
	case syscall.SIGTERM:
		return "Closing application, shutting down Datagram listener..."
	case syscall.SIGHUP:
		return "Connection to user lost, or user logoff event occurred, shutting down Datagram listener."
	default:
		return "Shutting down Datagram listener..."
	}
}
