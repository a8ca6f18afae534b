package transport

import (
	"errors"
	"fmt"
	"syscall"
)

// errno extracts the OS error code from err, or 0 when there is none.
func errno(err error) int {
	var no syscall.Errno
	if errors.As(err, &no) {
		return int(no)
	}
	return 0
}

// BindError reports that the listener could not acquire its port.
type BindError struct {
	Port int
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("could not bind datagram socket on port %d: (%d) - %v", e.Port, e.Code(), e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// Code returns the OS error code of the failure.
func (e *BindError) Code() int { return errno(e.Err) }

// SendError reports a failure to create the socket or transmit the frame.
type SendError struct {
	Broadcast bool
	Err       error
}

func (e *SendError) Error() string {
	op := "send"
	if e.Broadcast {
		op = "broadcast"
	}
	return fmt.Sprintf("datagram failed to %s: (%d) - %v", op, e.Code(), e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Code returns the OS error code of the failure.
func (e *SendError) Code() int { return errno(e.Err) }

// PollError reports a failure of the receive wait that ended the loop.
type PollError struct {
	Err error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("socket exception on listener: (%d) - %v", e.Code(), e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// Code returns the OS error code of the failure.
func (e *PollError) Code() int { return errno(e.Err) }
