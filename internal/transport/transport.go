// Package transport sends datagrams and runs the receive loop. The loop is
// written against the Socket interface; platform differences live in the
// sockopt_*.go files.
package transport

import (
	"errors"
	"net"
	"time"
)

// maxUDPPayload is the largest datagram an IPv4 UDP socket can deliver.
// The receive buffer uses it so oversized frames keep their true length.
const maxUDPPayload = 65507

// ErrPollTimeout is returned by Socket.ReadFrom when no datagram arrived
// within the poll timeout.
var ErrPollTimeout = errors.New("transport: poll timeout")

// Socket is the listener's view of a bound datagram endpoint.
type Socket interface {
	// ReadFrom waits up to timeout for one datagram and copies it into buf.
	// It returns ErrPollTimeout when nothing arrived in time.
	ReadFrom(buf []byte, timeout time.Duration) (int, net.Addr, error)
	LocalAddr() net.Addr
	Close() error
}

// udpSocket implements Socket over a *net.UDPConn, using a read deadline
// as the bounded wait.
type udpSocket struct {
	conn *net.UDPConn
}

func (s *udpSocket) ReadFrom(buf []byte, timeout time.Duration) (int, net.Addr, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, nil, err
	}

	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return 0, nil, ErrPollTimeout
		}
		return 0, nil, err
	}
	return n, addr, nil
}

func (s *udpSocket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *udpSocket) Close() error {
	return s.conn.Close()
}
