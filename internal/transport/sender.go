package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
)

// Sent describes a successful transmission.
type Sent struct {
	To        *net.UDPAddr
	Bytes     int
	Broadcast bool
}

// destination resolves where a frame goes. Broadcast frames always target
// the limited broadcast address and ignore target.
func destination(target string, port int, broadcast bool) (*net.UDPAddr, error) {
	if broadcast {
		return &net.UDPAddr{IP: net.IPv4bcast, Port: port}, nil
	}
	if target == "" {
		return nil, errors.New("missing target host")
	}
	return net.ResolveUDPAddr("udp4", net.JoinHostPort(target, strconv.Itoa(port)))
}

// Send transmits frame in a single packet from a fresh ephemeral socket.
// The socket is closed on every path. A short write counts as a failure.
// No retry is attempted and no timeout applies to the write itself.
func Send(ctx context.Context, target string, port int, broadcast bool, frame []byte) (*Sent, error) {
	dst, err := destination(target, port, broadcast)
	if err != nil {
		return nil, &SendError{Broadcast: broadcast, Err: err}
	}

	lc := net.ListenConfig{}
	if broadcast {
		lc.Control = enableBroadcast
	}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, &SendError{Broadcast: broadcast, Err: err}
	}
	defer pc.Close()

	n, err := pc.WriteTo(frame, dst)
	if err != nil {
		return nil, &SendError{Broadcast: broadcast, Err: err}
	}
	if n != len(frame) {
		return nil, &SendError{Broadcast: broadcast, Err: io.ErrShortWrite}
	}

	return &Sent{To: dst, Bytes: n, Broadcast: broadcast}, nil
}
