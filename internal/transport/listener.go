package transport

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/1ureka/udputil/internal/protocol"
	"github.com/1ureka/udputil/internal/util"
)

// PollTimeout bounds each wait for an inbound datagram.
const PollTimeout = 50 * time.Millisecond

// State is the receive loop state.
type State int32

const (
	StateListening State = iota
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateShuttingDown:
		return "shutting down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// Reporter receives everything the listener accepts. Calls are made from
// the loop goroutine, one at a time.
type Reporter interface {
	// Datagram is called for every structured datagram, the quit datagram
	// included.
	Datagram(from net.Addr, dg *protocol.Datagram)
	// Unrecognized is called for non-empty frames whose length is not
	// protocol.Size.
	Unrecognized(from net.Addr, u *protocol.Unrecognized)
}

// Listener is the single-goroutine receive loop bound to one socket.
type Listener struct {
	sock     Socket
	shutdown *Shutdown
	reporter Reporter
	timeout  time.Duration

	state atomic.Int32
	stats util.Stats
}

// Listen binds a UDP socket to port on all local IPv4 interfaces. A bind
// failure is returned as *BindError and no loop is created.
func Listen(ctx context.Context, port int, shutdown *Shutdown, r Reporter) (*Listener, error) {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort("", strconv.Itoa(port)))
	if err != nil {
		return nil, &BindError{Port: port, Err: err}
	}
	return NewListener(&udpSocket{conn: pc.(*net.UDPConn)}, shutdown, r), nil
}

// NewListener creates a loop over an already bound socket and attaches the
// socket to shutdown.
func NewListener(sock Socket, shutdown *Shutdown, r Reporter) *Listener {
	l := &Listener{
		sock:     sock,
		shutdown: shutdown,
		reporter: r,
		timeout:  PollTimeout,
	}
	shutdown.Attach(sock)
	return l
}

// LocalAddr returns the bound address.
func (l *Listener) LocalAddr() net.Addr {
	return l.sock.LocalAddr()
}

// State returns the current loop state.
func (l *Listener) State() State {
	return State(l.state.Load())
}

// Stats returns the listener's diagnostic counters.
func (l *Listener) Stats() util.Snapshot {
	return l.stats.Snapshot()
}

func (l *Listener) setState(s State) {
	l.state.Store(int32(s))
}

// Run receives datagrams until a quit datagram arrives, shutdown is
// triggered, or ctx is cancelled; each of those returns nil. A failed wait
// ends the loop with *PollError. The socket is closed when Run returns.
func (l *Listener) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, l.shutdown.Trigger)
	defer stop()
	defer l.close()

	buf := make([]byte, maxUDPPayload)
	for l.State() == StateListening {
		if l.shutdown.Requested() {
			l.setState(StateShuttingDown)
			break
		}

		n, from, err := l.sock.ReadFrom(buf, l.timeout)
		if err != nil {
			if errors.Is(err, ErrPollTimeout) {
				continue
			}
			if l.shutdown.Requested() {
				// Socket closed out-of-band by Trigger.
				l.setState(StateShuttingDown)
				break
			}
			util.LogError("socket exception occurred, shutting down listener: %v", err)
			return &PollError{Err: err}
		}

		l.dispatch(buf[:n], from)
	}
	return nil
}

// dispatch decodes one frame and hands it to the reporter.
func (l *Listener) dispatch(frame []byte, from net.Addr) {
	if len(frame) == 0 {
		return
	}

	dg, unk := protocol.Decode(frame)
	if unk != nil {
		l.stats.AddUnrecognized(unk.Length)
		l.reporter.Unrecognized(from, unk)
		return
	}

	l.stats.AddReceived(len(frame))
	l.reporter.Datagram(from, dg)
	if dg.Quit {
		l.setState(StateShuttingDown)
	}
}

func (l *Listener) close() {
	if err := l.sock.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		util.LogWarning("failed to close listener socket: %v", err)
	}
	l.setState(StateStopped)
	util.LogDebug("listener stopped (%s)", l.stats.Snapshot())
}
