//go:build windows

package transport

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// enableBroadcast is a net.ListenConfig control function that sets
// SO_BROADCAST on the socket before it is bound.
func enableBroadcast(network, address string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return os.NewSyscallError("setsockopt", opErr)
}
