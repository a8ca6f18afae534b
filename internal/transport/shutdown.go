package transport

import (
	"io"
	"sync/atomic"
)

// Shutdown is the state shared between the receive loop and whoever asks
// it to stop (a signal watcher or a cancelled context). It holds a flag and
// the socket handle; both are accessed atomically and nothing else is
// synchronized.
//
// Trigger closes the socket while the loop may be reading it. That race is
// accepted: the loop treats a closed-socket error after a shutdown request
// as a clean stop.
type Shutdown struct {
	requested atomic.Bool
	sock      atomic.Pointer[closerRef]
}

type closerRef struct {
	c io.Closer
}

// NewShutdown returns a Shutdown with no socket attached.
func NewShutdown() *Shutdown {
	return &Shutdown{}
}

// Attach registers the socket Trigger closes. If a shutdown was already
// requested the socket is closed immediately.
func (s *Shutdown) Attach(c io.Closer) {
	s.sock.Store(&closerRef{c: c})
	if s.requested.Load() {
		_ = c.Close()
	}
}

// Trigger requests shutdown and best-effort closes the attached socket.
// It is safe to call more than once and from any goroutine.
func (s *Shutdown) Trigger() {
	s.requested.Store(true)
	if ref := s.sock.Load(); ref != nil {
		_ = ref.c.Close()
	}
}

// Requested reports whether Trigger has been called.
func (s *Shutdown) Requested() bool {
	return s.requested.Load()
}
