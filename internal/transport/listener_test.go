package transport

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/1ureka/udputil/internal/protocol"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// readStep is one scripted result of fakeSocket.ReadFrom.
type readStep struct {
	data []byte
	err  error
}

// fakeSocket replays scripted reads. Once the script is exhausted it behaves
// like an idle socket: every read waits for the timeout and reports
// ErrPollTimeout.
type fakeSocket struct {
	mu     sync.Mutex
	steps  []readStep
	reads  int
	closed bool
}

var fakePeer = &net.UDPAddr{IP: net.IPv4(192, 0, 2, 7), Port: 40000}

func (f *fakeSocket) ReadFrom(buf []byte, timeout time.Duration) (int, net.Addr, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return 0, nil, net.ErrClosed
	}
	f.reads++
	if len(f.steps) == 0 {
		f.mu.Unlock()
		time.Sleep(timeout)
		return 0, nil, ErrPollTimeout
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	f.mu.Unlock()

	if s.err != nil {
		return 0, nil, s.err
	}
	return copy(buf, s.data), fakePeer, nil
}

func (f *fakeSocket) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4zero, Port: 9000}
}

func (f *fakeSocket) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return net.ErrClosed
	}
	f.closed = true
	return nil
}

func (f *fakeSocket) remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.steps)
}

// recorder is a Reporter that forwards every report to channels.
type recorder struct {
	datagrams    chan *protocol.Datagram
	unrecognized chan *protocol.Unrecognized
	sources      chan net.Addr
}

func newRecorder() *recorder {
	return &recorder{
		datagrams:    make(chan *protocol.Datagram, 16),
		unrecognized: make(chan *protocol.Unrecognized, 16),
		sources:      make(chan net.Addr, 32),
	}
}

func (r *recorder) Datagram(from net.Addr, dg *protocol.Datagram) {
	r.sources <- from
	r.datagrams <- dg
}

func (r *recorder) Unrecognized(from net.Addr, u *protocol.Unrecognized) {
	r.sources <- from
	r.unrecognized <- u
}

func frame(dg *protocol.Datagram) readStep {
	return readStep{data: protocol.Encode(dg)}
}

// runAsync starts l.Run and returns a channel carrying its result.
func runAsync(ctx context.Context, l *Listener) <-chan error {
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop within 3s")
		return nil
	}
}

// ---------------------------------------------------------------------------
// State machine
// ---------------------------------------------------------------------------

// TestListenerQuitStopsLoop verifies that a quit datagram is reported and
// that nothing after it is read.
func TestListenerQuitStopsLoop(t *testing.T) {
	sock := &fakeSocket{steps: []readStep{
		frame(&protocol.Datagram{Origin: "HOST1", Payload: []byte("hello"), Counter: 5}),
		frame(&protocol.Datagram{Origin: "HOST1", Payload: []byte("bye"), Counter: 6, Quit: true}),
		frame(&protocol.Datagram{Origin: "HOST1", Payload: []byte("late"), Counter: 7}),
	}}
	rec := newRecorder()
	l := NewListener(sock, NewShutdown(), rec)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(rec.datagrams); got != 2 {
		t.Fatalf("reported %d datagrams, want 2", got)
	}
	first, second := <-rec.datagrams, <-rec.datagrams
	if first.Counter != 5 || string(first.Payload) != "hello" || first.Origin != "HOST1" {
		t.Errorf("first datagram = %+v", first)
	}
	if !second.Quit {
		t.Errorf("second datagram should carry the quit flag")
	}
	if sock.remaining() != 1 {
		t.Errorf("datagram after quit was read")
	}
	if l.State() != StateStopped {
		t.Errorf("State = %s, want stopped", l.State())
	}
	if !sock.closed {
		t.Errorf("socket not closed after Run")
	}
	if s := l.Stats(); s.Received != 2 || s.Unrecognized != 0 {
		t.Errorf("Stats = %+v", s)
	}
}

// TestListenerTimeoutSilence verifies that idle poll cycles produce no
// reports and do not end the loop.
func TestListenerTimeoutSilence(t *testing.T) {
	sock := &fakeSocket{}
	rec := newRecorder()
	sh := NewShutdown()
	l := NewListener(sock, sh, rec)

	done := runAsync(context.Background(), l)
	time.Sleep(6 * PollTimeout)

	select {
	case err := <-done:
		t.Fatalf("Run returned during idle period: %v", err)
	default:
	}
	if l.State() != StateListening {
		t.Errorf("State = %s, want listening", l.State())
	}
	if len(rec.datagrams)+len(rec.unrecognized) != 0 {
		t.Errorf("idle listener emitted reports")
	}
	sock.mu.Lock()
	reads := sock.reads
	sock.mu.Unlock()
	if reads < 2 {
		t.Errorf("expected several poll cycles, got %d", reads)
	}

	sh.Trigger()
	if err := waitRun(t, done); err != nil {
		t.Fatalf("Run after Trigger: %v", err)
	}
	if l.State() != StateStopped {
		t.Errorf("State = %s, want stopped", l.State())
	}
}

// TestListenerUnrecognizedFrames verifies that wrong-size frames are
// reported with their length and that the loop keeps listening.
func TestListenerUnrecognizedFrames(t *testing.T) {
	sock := &fakeSocket{steps: []readStep{
		{data: []byte("abc")},
		{data: []byte{}},
		{data: make([]byte, protocol.Size+1)},
		frame(&protocol.Datagram{Origin: "HOST1", Quit: true}),
	}}
	rec := newRecorder()
	l := NewListener(sock, NewShutdown(), rec)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(rec.unrecognized); got != 2 {
		t.Fatalf("reported %d unrecognized frames, want 2", got)
	}
	if u := <-rec.unrecognized; u.Length != 3 || string(u.Data) != "abc" {
		t.Errorf("first unrecognized = %+v", u)
	}
	if u := <-rec.unrecognized; u.Length != protocol.Size+1 {
		t.Errorf("second unrecognized length = %d", u.Length)
	}
	if got := len(rec.datagrams); got != 1 {
		t.Errorf("reported %d datagrams, want 1", got)
	}
	if s := l.Stats(); s.Received != 1 || s.Unrecognized != 2 {
		t.Errorf("Stats = %+v", s)
	}
}

// TestListenerPollError verifies that a failed wait ends the loop with a
// PollError.
func TestListenerPollError(t *testing.T) {
	boom := errors.New("boom")
	sock := &fakeSocket{steps: []readStep{{err: boom}}}
	l := NewListener(sock, NewShutdown(), newRecorder())

	err := l.Run(context.Background())
	var pollErr *PollError
	if !errors.As(err, &pollErr) {
		t.Fatalf("Run = %v, want *PollError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("PollError does not wrap the cause")
	}
	if l.State() != StateStopped {
		t.Errorf("State = %s, want stopped", l.State())
	}
}

// TestListenerTriggerBeforeRun verifies that a shutdown requested before
// the loop starts stops it without reading.
func TestListenerTriggerBeforeRun(t *testing.T) {
	sh := NewShutdown()
	sh.Trigger()

	sock := &fakeSocket{steps: []readStep{frame(&protocol.Datagram{Origin: "HOST1"})}}
	l := NewListener(sock, sh, newRecorder())

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sock.reads != 0 {
		t.Errorf("socket read %d times, want 0", sock.reads)
	}
}

// TestListenerContextCancel verifies that cancelling the context behaves
// like a shutdown request.
func TestListenerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sh := NewShutdown()
	l := NewListener(&fakeSocket{}, sh, newRecorder())

	done := runAsync(ctx, l)
	time.Sleep(2 * PollTimeout)
	cancel()

	if err := waitRun(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sh.Requested() {
		t.Errorf("context cancel did not request shutdown")
	}
}

func TestStateString(t *testing.T) {
	testCases := map[State]string{
		StateListening:    "listening",
		StateShuttingDown: "shutting down",
		StateStopped:      "stopped",
		State(9):          "unknown(9)",
	}
	for s, want := range testCases {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int32(s), got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Loopback
// ---------------------------------------------------------------------------

func listenLoopback(t *testing.T, ctx context.Context, sh *Shutdown, r Reporter) (*Listener, int) {
	t.Helper()
	l, err := Listen(ctx, 0, sh, r)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	return l, l.LocalAddr().(*net.UDPAddr).Port
}

// TestListenAndSendLoopback exercises the real socket path: structured,
// raw and quit datagrams sent with Send to a bound Listener.
func TestListenAndSendLoopback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rec := newRecorder()
	l, port := listenLoopback(t, ctx, NewShutdown(), rec)
	done := runAsync(ctx, l)

	hello := protocol.Encode(&protocol.Datagram{Origin: "HOST1", Payload: []byte("hello"), Counter: 5})
	sent, err := Send(ctx, "127.0.0.1", port, false, hello)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent.Bytes != protocol.Size || sent.Broadcast {
		t.Errorf("Sent = %+v", sent)
	}

	select {
	case dg := <-rec.datagrams:
		if dg.Origin != "HOST1" || string(dg.Payload) != "hello" || dg.Counter != 5 || dg.Quit {
			t.Errorf("received %+v", dg)
		}
		from := (<-rec.sources).(*net.UDPAddr)
		if !from.IP.Equal(net.IPv4(127, 0, 0, 1)) {
			t.Errorf("source = %v, want 127.0.0.1", from)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("structured datagram not received")
	}

	if _, err := Send(ctx, "127.0.0.1", port, false, protocol.EncodeRaw([]byte("abc"))); err != nil {
		t.Fatalf("Send raw: %v", err)
	}
	select {
	case u := <-rec.unrecognized:
		<-rec.sources
		if u.Length != 3 {
			t.Errorf("unrecognized length = %d, want 3", u.Length)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("raw datagram not reported")
	}
	if l.State() != StateListening {
		t.Fatalf("State after raw frame = %s, want listening", l.State())
	}

	quit := protocol.Encode(&protocol.Datagram{Origin: "HOST1", Quit: true})
	if _, err := Send(ctx, "127.0.0.1", port, false, quit); err != nil {
		t.Fatalf("Send quit: %v", err)
	}
	if err := waitRun(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.State() != StateStopped {
		t.Errorf("State = %s, want stopped", l.State())
	}
}

// TestListenTriggerUnblocksRead verifies that closing the socket from
// another goroutine ends a loop waiting on a real socket.
func TestListenTriggerUnblocksRead(t *testing.T) {
	sh := NewShutdown()
	l, _ := listenLoopback(t, context.Background(), sh, newRecorder())
	done := runAsync(context.Background(), l)

	time.Sleep(3 * PollTimeout)
	sh.Trigger()

	if err := waitRun(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// TestListenBindError verifies that an occupied port yields a BindError.
func TestListenBindError(t *testing.T) {
	ctx := context.Background()
	first, port := listenLoopback(t, ctx, NewShutdown(), newRecorder())
	defer first.sock.Close()

	_, err := Listen(ctx, port, NewShutdown(), newRecorder())
	var bindErr *BindError
	if !errors.As(err, &bindErr) {
		t.Fatalf("Listen on busy port = %v, want *BindError", err)
	}
	if bindErr.Port != port {
		t.Errorf("BindError.Port = %d, want %d", bindErr.Port, port)
	}
}
